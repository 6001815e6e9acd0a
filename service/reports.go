package service

import (
	"context"
	"fmt"
	"strings"

	"citypulse/database"
	"citypulse/models"
)

// ValidationError marks a client-caused input failure. Handlers map it to
// a 400 response.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func categoryList() string {
	parts := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func severityList() string {
	parts := make([]string, len(models.SeverityLevels))
	for i, s := range models.SeverityLevels {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func statusList() string {
	parts := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// ReportService validates input and delegates to the store. It holds no
// state of its own.
type ReportService struct {
	store database.ReportStore
}

func NewReportService(store database.ReportStore) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) List(ctx context.Context, filters models.ReportFilters) ([]models.Report, error) {
	return s.store.FindAll(ctx, filters)
}

func (s *ReportService) Get(ctx context.Context, id int) (*models.Report, error) {
	return s.store.FindByID(ctx, id)
}

func validateCreate(req *models.CreateReportRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Field: "name", Message: "New report name required."}
	}
	if req.Location == nil || req.Location.Lat == 0 || req.Location.Lng == 0 {
		return &ValidationError{Field: "location", Message: "New report location required."}
	}
	if req.Category == "" || !req.Category.Valid() {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("Invalid category. Must be one of: %s", categoryList()),
		}
	}
	if req.SeverityLevel == "" || !req.SeverityLevel.Valid() {
		return &ValidationError{
			Field:   "severityLevel",
			Message: fmt.Sprintf("Severity level invalid. Must be one of: %s", severityList()),
		}
	}
	if strings.TrimSpace(req.Address) == "" {
		return &ValidationError{Field: "address", Message: "New report address required."}
	}
	return nil
}

func validateUpdate(patch *models.UpdateReportRequest) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return &ValidationError{Field: "name", Message: "New report name required."}
	}
	if patch.Address != nil && strings.TrimSpace(*patch.Address) == "" {
		return &ValidationError{Field: "address", Message: "New report address required."}
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("Invalid category. Must be one of: %s", categoryList()),
		}
	}
	if patch.SeverityLevel != nil && !patch.SeverityLevel.Valid() {
		return &ValidationError{
			Field:   "severityLevel",
			Message: fmt.Sprintf("Severity level invalid. Must be one of: %s", severityList()),
		}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("Invalid status. Must be one of: %s", statusList()),
		}
	}
	if patch.Upvotes != nil && *patch.Upvotes < 0 {
		return &ValidationError{Field: "upvotes", Message: "Invalid upvotes. Must not be negative."}
	}
	return nil
}

func (s *ReportService) Create(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, req)
}

func (s *ReportService) Update(ctx context.Context, id int, patch *models.UpdateReportRequest) (*models.Report, error) {
	if err := validateUpdate(patch); err != nil {
		return nil, err
	}
	return s.store.UpdateByID(ctx, id, patch)
}

func (s *ReportService) Delete(ctx context.Context, id int) error {
	return s.store.DeleteByID(ctx, id)
}
