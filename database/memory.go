package database

import (
	"context"
	"strings"
	"sync"
	"time"

	"citypulse/models"
)

// MemoryStore keeps the report collection in process memory. State lives
// exactly as long as the process; there is no durability.
type MemoryStore struct {
	mu      sync.RWMutex
	reports []models.Report
	nextID  int

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		now:    time.Now,
	}
}

// Matches reports whether a report satisfies every supplied filter.
// Category, status and severity are exact matches; search is a
// case-insensitive substring over name, address and description.
func Matches(r *models.Report, f models.ReportFilters) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Severity != "" && r.SeverityLevel != f.Severity {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Name), needle) &&
			!strings.Contains(strings.ToLower(r.Address), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) {
			return false
		}
	}
	return true
}

func (s *MemoryStore) FindAll(ctx context.Context, filters models.ReportFilters) ([]models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Report, 0, len(s.reports))
	for i := range s.reports {
		if Matches(&s.reports[i], filters) {
			result = append(result, s.reports[i])
		}
	}
	return result, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id int) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.reports {
		if s.reports[i].ID == id {
			r := s.reports[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Create(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := req.Images
	if images == nil {
		images = []string{}
	}
	report := models.Report{
		ID:            s.nextID,
		Name:          req.Name,
		Date:          s.now().UTC(),
		Location:      *req.Location,
		Address:       req.Address,
		Category:      req.Category,
		SeverityLevel: req.SeverityLevel,
		Status:        models.StatusPending,
		Images:        images,
		Description:   req.Description,
		Upvotes:       0,
	}
	s.nextID++
	s.reports = append(s.reports, report)
	return &report, nil
}

func (s *MemoryStore) UpdateByID(ctx context.Context, id int, patch *models.UpdateReportRequest) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].ID == id {
			applyPatch(&s.reports[i], patch)
			r := s.reports[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) DeleteByID(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].ID == id {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
