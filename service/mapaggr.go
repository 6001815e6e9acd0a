package service

import (
	"context"

	"citypulse/models"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Map aggregation buckets report locations into s2 cells sized to the
// requested viewport, so a map view gets at most a screenful of markers
// regardless of how many reports exist. Weight sums severity intensity for
// heatmap rendering.

type aggrUnit struct {
	cnt      int64
	weight   float64
	origCell s2.CellID
}

type MapAggregator struct {
	level int
	aggrs map[s2.CellID]*aggrUnit
}

const (
	expectedCells = 160
	minLevel      = 6
	maxLevel      = 16
)

func cellBaseLevel(vp *models.ViewPort) int {
	minLL := s2.LatLngFromDegrees(vp.LatMin, vp.LonMin)
	maxLL := s2.LatLngFromDegrees(vp.LatMax, vp.LonMax)

	rect := s2.Rect{
		Lat: r1.Interval{
			Lo: minLL.Lat.Radians(),
			Hi: maxLL.Lat.Radians()},
		Lng: s1.Interval{
			Lo: minLL.Lng.Radians(),
			Hi: maxLL.Lng.Radians()},
	}

	vpArea := rect.Area()

	center := s2.CellIDFromLatLng(s2.LatLngFromDegrees(
		(vp.LatMin+vp.LatMax)/2, (vp.LonMin+vp.LonMax)/2))

	for lv := maxLevel; lv >= minLevel; lv-- {
		cc := s2.CellFromCellID(center.Parent(lv))
		if vpArea/cc.ApproxArea() < expectedCells {
			return lv
		}
	}
	return minLevel // Large enough level
}

func NewMapAggregator(vp *models.ViewPort) *MapAggregator {
	return &MapAggregator{
		level: cellBaseLevel(vp),
		aggrs: make(map[s2.CellID]*aggrUnit),
	}
}

func (a *MapAggregator) AddPoint(lat, lng, weight float64) {
	pc := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))
	parent := pc.Parent(a.level)
	if _, ok := a.aggrs[parent]; !ok {
		a.aggrs[parent] = &aggrUnit{}
	}
	a.aggrs[parent].cnt += 1
	a.aggrs[parent].weight += weight
	a.aggrs[parent].origCell = pc
}

func (a *MapAggregator) ToCells() []models.MapCell {
	r := make([]models.MapCell, 0, len(a.aggrs))
	for c, unit := range a.aggrs {
		ll := c.LatLng()
		// Single points keep their exact coordinates.
		if unit.cnt == 1 {
			ll = unit.origCell.LatLng()
		}
		r = append(r, models.MapCell{
			Latitude:  ll.Lat.Degrees(),
			Longitude: ll.Lng.Degrees(),
			Count:     unit.cnt,
			Weight:    unit.weight,
		})
	}
	return r
}

func inViewPort(vp *models.ViewPort, loc models.Location) bool {
	return loc.Lat >= vp.LatMin && loc.Lat <= vp.LatMax &&
		loc.Lng >= vp.LonMin && loc.Lng <= vp.LonMax
}

// MapCells aggregates the locations of reports matching the filters inside
// the viewport.
func (s *ReportService) MapCells(ctx context.Context, vp *models.ViewPort, filters models.ReportFilters) ([]models.MapCell, error) {
	reports, err := s.store.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}

	a := NewMapAggregator(vp)
	for i := range reports {
		if !inViewPort(vp, reports[i].Location) {
			continue
		}
		a.AddPoint(reports[i].Location.Lat, reports[i].Location.Lng,
			models.HeatWeight(reports[i].SeverityLevel))
	}
	return a.ToCells(), nil
}
