package service

import (
	"context"
	"testing"

	"citypulse/database"
	"citypulse/models"
)

func TestMapAggregatorBucketsNearbyPoints(t *testing.T) {
	vp := &models.ViewPort{LatMin: 4.0, LonMin: 5.0, LatMax: 9.0, LonMax: 10.0}
	a := NewMapAggregator(vp)

	points := []struct {
		lat, lng float64
	}{
		{5.3, 4.5},
		{5.7, 4.1},
		{7.3, 5.6},
		{8.3, 7.5},
		{8.1, 7.7},
		{8.9, 7.9},
	}
	for _, p := range points {
		a.AddPoint(p.lat, p.lng, 0.5)
	}

	cells := a.ToCells()
	if len(cells) == 0 || len(cells) > len(points) {
		t.Fatalf("expected between 1 and %d cells, got %d", len(points), len(cells))
	}

	var total int64
	var weight float64
	for _, c := range cells {
		if c.Count < 1 {
			t.Errorf("cell with zero count: %+v", c)
		}
		total += c.Count
		weight += c.Weight
	}
	if total != int64(len(points)) {
		t.Errorf("aggregation lost points: got %d, want %d", total, len(points))
	}
	if weight != 0.5*float64(len(points)) {
		t.Errorf("aggregation lost weight: got %f", weight)
	}
}

func TestMapAggregatorSinglePointKeepsCoordinates(t *testing.T) {
	vp := &models.ViewPort{LatMin: 46.0, LonMin: 23.0, LatMax: 47.0, LonMax: 24.0}
	a := NewMapAggregator(vp)
	a.AddPoint(46.77, 23.59, 1.0)

	cells := a.ToCells()
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	const eps = 1e-6
	if diff := cells[0].Latitude - 46.77; diff > eps || diff < -eps {
		t.Errorf("latitude drifted: %f", cells[0].Latitude)
	}
	if diff := cells[0].Longitude - 23.59; diff > eps || diff < -eps {
		t.Errorf("longitude drifted: %f", cells[0].Longitude)
	}
}

func TestMapCellsHonorsViewportAndFilters(t *testing.T) {
	store := database.NewMemoryStore()
	svc := NewReportService(store)
	ctx := context.Background()

	inside := &models.CreateReportRequest{
		Name:          "Pothole downtown",
		Location:      &models.Location{Lat: 46.77, Lng: 23.59},
		Address:       "Main St",
		Category:      models.CategoryPothole,
		SeverityLevel: models.SeverityCritical,
	}
	outside := &models.CreateReportRequest{
		Name:          "Pothole far away",
		Location:      &models.Location{Lat: 40.71, Lng: -74.0},
		Address:       "Broadway",
		Category:      models.CategoryPothole,
		SeverityLevel: models.SeverityLow,
	}
	otherCategory := &models.CreateReportRequest{
		Name:          "Bin downtown",
		Location:      &models.Location{Lat: 46.76, Lng: 23.58},
		Address:       "Central Park",
		Category:      models.CategoryWaste,
		SeverityLevel: models.SeverityLow,
	}
	for _, req := range []*models.CreateReportRequest{inside, outside, otherCategory} {
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}

	vp := &models.ViewPort{LatMin: 46.7, LonMin: 23.5, LatMax: 46.8, LonMax: 23.7}
	cells, err := svc.MapCells(ctx, vp, models.ReportFilters{Category: models.CategoryPothole})
	if err != nil {
		t.Fatalf("MapCells: %v", err)
	}

	var total int64
	for _, c := range cells {
		total += c.Count
	}
	if total != 1 {
		t.Errorf("expected exactly the downtown pothole, got %d points in %v", total, cells)
	}
	if len(cells) == 1 && cells[0].Weight != models.HeatWeight(models.SeverityCritical) {
		t.Errorf("expected critical heat weight, got %f", cells[0].Weight)
	}
}
