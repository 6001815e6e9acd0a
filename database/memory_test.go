package database

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"citypulse/models"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func seedStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	ctx := context.Background()

	fixtures := []models.CreateReportRequest{
		{
			Name:          "Pothole on Main Street",
			Location:      &models.Location{Lat: 46.77, Lng: 23.59},
			Address:       "Main Street 5",
			Category:      models.CategoryPothole,
			SeverityLevel: models.SeverityHigh,
			Description:   "Deep hole near the crosswalk",
		},
		{
			Name:          "Overflowing bin",
			Location:      &models.Location{Lat: 46.76, Lng: 23.58},
			Address:       "Central Park",
			Category:      models.CategoryWaste,
			SeverityLevel: models.SeverityMedium,
			Description:   "Garbage bin has not been emptied",
		},
		{
			Name:          "Dark alley",
			Location:      &models.Location{Lat: 46.75, Lng: 23.60},
			Address:       "Oak Avenue 12",
			Category:      models.CategoryPublicLighting,
			SeverityLevel: models.SeverityMedium,
			Description:   "Street lamp broken for a week",
		},
	}
	for i := range fixtures {
		if _, err := s.Create(ctx, &fixtures[i]); err != nil {
			t.Fatalf("seeding report %d: %v", i, err)
		}
	}
	return s
}

func TestCreateAssignsServerFields(t *testing.T) {
	s := NewMemoryStore()
	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	r, err := s.Create(context.Background(), &models.CreateReportRequest{
		Name:          "Pothole",
		Location:      &models.Location{Lat: 1, Lng: 2},
		Address:       "Main St",
		Category:      models.CategoryPothole,
		SeverityLevel: models.SeverityHigh,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if r.ID != 1 {
		t.Errorf("expected first id 1, got %d", r.ID)
	}
	if !r.Date.Equal(fixed) {
		t.Errorf("expected date %v, got %v", fixed, r.Date)
	}
	if r.Status != models.StatusPending {
		t.Errorf("expected initial status %s, got %s", models.StatusPending, r.Status)
	}
	if r.Upvotes != 0 {
		t.Errorf("expected 0 upvotes, got %d", r.Upvotes)
	}
	if r.Images == nil {
		t.Error("expected images to be an empty list, got nil")
	}

	r2, err := s.Create(context.Background(), &models.CreateReportRequest{
		Name:          "Second",
		Location:      &models.Location{Lat: 3, Lng: 4},
		Address:       "Oak Ave",
		Category:      models.CategoryWaste,
		SeverityLevel: models.SeverityLow,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r2.ID != 2 {
		t.Errorf("expected sequential id 2, got %d", r2.ID)
	}
}

func TestFindAllFilters(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	testCases := []struct {
		name      string
		filters   models.ReportFilters
		wantNames []string
	}{
		{
			name:      "No filters returns all in insertion order",
			filters:   models.ReportFilters{},
			wantNames: []string{"Pothole on Main Street", "Overflowing bin", "Dark alley"},
		},
		{
			name:      "Category exact match",
			filters:   models.ReportFilters{Category: models.CategoryWaste},
			wantNames: []string{"Overflowing bin"},
		},
		{
			name:      "Severity exact match",
			filters:   models.ReportFilters{Severity: models.SeverityMedium},
			wantNames: []string{"Overflowing bin", "Dark alley"},
		},
		{
			name:      "Search is case-insensitive over name",
			filters:   models.ReportFilters{Search: "POTHOLE"},
			wantNames: []string{"Pothole on Main Street"},
		},
		{
			name:      "Search matches address substring",
			filters:   models.ReportFilters{Search: "oak"},
			wantNames: []string{"Dark alley"},
		},
		{
			name:      "Search matches description substring",
			filters:   models.ReportFilters{Search: "crosswalk"},
			wantNames: []string{"Pothole on Main Street"},
		},
		{
			name: "Filters combine with AND semantics",
			filters: models.ReportFilters{
				Category: models.CategoryWaste,
				Search:   "bin",
			},
			wantNames: []string{"Overflowing bin"},
		},
		{
			name: "Conjunction can be empty",
			filters: models.ReportFilters{
				Category: models.CategoryPothole,
				Search:   "bin",
			},
			wantNames: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.FindAll(ctx, tc.filters)
			if err != nil {
				t.Fatalf("FindAll: %v", err)
			}
			names := make([]string, 0, len(got))
			for _, r := range got {
				names = append(names, r.Name)
			}
			if !reflect.DeepEqual(names, tc.wantNames) {
				t.Errorf("expected %v, got %v", tc.wantNames, names)
			}
		})
	}
}

func TestFindByID(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	r, err := s.FindByID(ctx, 2)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if r.Name != "Overflowing bin" {
		t.Errorf("expected Overflowing bin, got %s", r.Name)
	}

	if _, err := s.FindByID(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateByIDMergesOnlySuppliedFields(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	before, err := s.FindByID(ctx, 1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}

	status := models.StatusWorking
	updated, err := s.UpdateByID(ctx, 1, &models.UpdateReportRequest{Status: &status})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if updated.Status != models.StatusWorking {
		t.Errorf("expected status WORKING, got %s", updated.Status)
	}
	if updated.Name != before.Name || updated.Address != before.Address ||
		updated.Category != before.Category || updated.Upvotes != before.Upvotes ||
		!updated.Date.Equal(before.Date) {
		t.Errorf("unrelated fields changed: before %+v, after %+v", before, updated)
	}

	// An empty patch is the identity.
	same, err := s.UpdateByID(ctx, 1, &models.UpdateReportRequest{})
	if err != nil {
		t.Fatalf("UpdateByID with empty patch: %v", err)
	}
	if !reflect.DeepEqual(same, updated) {
		t.Errorf("empty patch changed the record: %+v vs %+v", updated, same)
	}

	if _, err := s.UpdateByID(ctx, 999, &models.UpdateReportRequest{Status: &status}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteByIDTwice(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	if err := s.DeleteByID(ctx, 2); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.DeleteByID(ctx, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}

	remaining, err := s.FindAll(ctx, models.ReportFilters{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("expected 2 remaining reports, got %d", len(remaining))
	}
}

func TestSeedDemoData(t *testing.T) {
	s := NewMemoryStore()
	rng := newTestRand()
	if err := SeedDemoData(context.Background(), s, rng); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	all, err := s.FindAll(context.Background(), models.ReportFilters{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != seedReportCount {
		t.Fatalf("expected %d seeded reports, got %d", seedReportCount, len(all))
	}
	for _, r := range all {
		if !r.Category.Valid() || !r.SeverityLevel.Valid() || !r.Status.Valid() {
			t.Errorf("seeded report %d has out-of-enum values: %+v", r.ID, r)
		}
		if r.Upvotes < 0 {
			t.Errorf("seeded report %d has negative upvotes", r.ID)
		}
		if r.Location.Lat < seedBounds.LatMin || r.Location.Lat > seedBounds.LatMax {
			t.Errorf("seeded report %d outside latitude bounds: %f", r.ID, r.Location.Lat)
		}
	}
}
