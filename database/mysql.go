package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"citypulse/models"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a durable ReportStore over the reports table. It honors the
// same contract as MemoryStore: sequential ids, insertion order listing,
// shallow-merge updates.
type MySQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db, now: time.Now}
}

const reportColumns = `id, name, date, latitude, longitude, address, category, severity, status, images_json, description, upvotes`

func scanReport(rows *sql.Rows) (*models.Report, error) {
	var (
		r          models.Report
		imagesJSON sql.NullString
		descr      sql.NullString
	)
	if err := rows.Scan(&r.ID, &r.Name, &r.Date, &r.Location.Lat, &r.Location.Lng,
		&r.Address, &r.Category, &r.SeverityLevel, &r.Status,
		&imagesJSON, &descr, &r.Upvotes); err != nil {
		return nil, err
	}
	r.Images = []string{}
	if imagesJSON.Valid && imagesJSON.String != "" {
		if err := json.Unmarshal([]byte(imagesJSON.String), &r.Images); err != nil {
			log.Warnf("Report %d carries malformed images json: %v", r.ID, err)
		}
	}
	if descr.Valid {
		r.Description = descr.String
	}
	return &r, nil
}

// buildReportFilters turns the filter set into a WHERE tail plus args.
func buildReportFilters(f models.ReportFilters) (string, []any) {
	whereClause := ""
	args := make([]any, 0)

	if f.Category != "" {
		whereClause += " AND category = ?"
		args = append(args, string(f.Category))
	}
	if f.Status != "" {
		whereClause += " AND status = ?"
		args = append(args, string(f.Status))
	}
	if f.Severity != "" {
		whereClause += " AND severity = ?"
		args = append(args, string(f.Severity))
	}
	if f.Search != "" {
		whereClause += " AND (LOWER(name) LIKE ? OR LOWER(address) LIKE ? OR LOWER(description) LIKE ?)"
		pattern := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pattern, pattern, pattern)
	}

	return whereClause, args
}

func (s *MySQLStore) FindAll(ctx context.Context, filters models.ReportFilters) ([]models.Report, error) {
	whereClause, args := buildReportFilters(filters)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE 1=1`+whereClause+` ORDER BY id`, args...)
	if err != nil {
		log.Errorf("Could not retrieve reports: %v", err)
		return nil, err
	}
	defer rows.Close()

	result := make([]models.Report, 0)
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

func (s *MySQLStore) FindByID(ctx context.Context, id int) (*models.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ErrNotFound
	}
	return scanReport(rows)
}

func (s *MySQLStore) Create(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	images := req.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, err
	}

	created := s.now().UTC().Truncate(time.Second)
	result, err := s.db.ExecContext(ctx, `INSERT
		INTO reports (name, date, latitude, longitude, address, category, severity, status, images_json, description, upvotes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.Name, created, req.Location.Lat, req.Location.Lng, req.Address,
		string(req.Category), string(req.SeverityLevel), string(models.StatusPending),
		string(imagesJSON), req.Description, 0)
	if err != nil {
		log.Errorf("Failed to insert report: %v", err)
		return nil, err
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Report{
		ID:            int(newID),
		Name:          req.Name,
		Date:          created,
		Location:      *req.Location,
		Address:       req.Address,
		Category:      req.Category,
		SeverityLevel: req.SeverityLevel,
		Status:        models.StatusPending,
		Images:        images,
		Description:   req.Description,
		Upvotes:       0,
	}, nil
}

func (s *MySQLStore) UpdateByID(ctx context.Context, id int, patch *models.UpdateReportRequest) (*models.Report, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Errorf("Error creating transaction: %v", err)
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if !rows.Next() {
		rows.Close()
		return nil, ErrNotFound
	}
	report, err := scanReport(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	applyPatch(report, patch)

	imagesJSON, err := json.Marshal(report.Images)
	if err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx, `UPDATE reports
		SET name = ?, latitude = ?, longitude = ?, address = ?, category = ?, severity = ?, status = ?, images_json = ?, description = ?, upvotes = ?
		WHERE id = ?`,
		report.Name, report.Location.Lat, report.Location.Lng, report.Address,
		string(report.Category), string(report.SeverityLevel), string(report.Status),
		string(imagesJSON), report.Description, report.Upvotes, id)
	if err != nil {
		log.Errorf("Failed to update report %d: %v", id, err)
		return nil, err
	}
	if _, err := result.RowsAffected(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *MySQLStore) DeleteByID(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		log.Errorf("Failed to delete report %d: %v", id, err)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	if rows != 1 {
		return fmt.Errorf("expected to delete 1 row, deleted %d", rows)
	}
	return nil
}
