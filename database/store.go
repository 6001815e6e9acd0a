package database

import (
	"context"
	"errors"

	"citypulse/models"
)

// ErrNotFound is returned when no report matches the requested id.
var ErrNotFound = errors.New("report not found")

// ReportStore is the canonical home of the report collection. The in-memory
// implementation is the default; the MySQL one can be substituted via
// configuration without touching callers.
type ReportStore interface {
	FindAll(ctx context.Context, filters models.ReportFilters) ([]models.Report, error)
	FindByID(ctx context.Context, id int) (*models.Report, error)
	Create(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error)
	UpdateByID(ctx context.Context, id int, patch *models.UpdateReportRequest) (*models.Report, error)
	DeleteByID(ctx context.Context, id int) error
}

// applyPatch shallow-merges a patch onto a report. Only supplied fields
// change; id and date are never touched.
func applyPatch(r *models.Report, patch *models.UpdateReportRequest) {
	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Location != nil {
		r.Location = *patch.Location
	}
	if patch.Address != nil {
		r.Address = *patch.Address
	}
	if patch.Category != nil {
		r.Category = *patch.Category
	}
	if patch.SeverityLevel != nil {
		r.SeverityLevel = *patch.SeverityLevel
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	if patch.Images != nil {
		r.Images = *patch.Images
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.Upvotes != nil {
		r.Upvotes = *patch.Upvotes
	}
}
