package models

// Rendering helpers shared by map and list clients. Pure functions only;
// views decide how to draw, these decide what to draw with.

var severityColors = map[SeverityLevel]string{
	SeverityLow:      "#10b981",
	SeverityMedium:   "#f59e0b",
	SeverityHigh:     "#ef4444",
	SeverityCritical: "#dc2626",
}

// SeverityColor returns the marker color for a severity.
func SeverityColor(s SeverityLevel) string {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return severityColors[SeverityMedium]
}

var categoryIcons = map[Category]string{
	CategoryPothole:        "pothole",
	CategoryWaste:          "waste",
	CategoryPollution:      "pollution",
	CategoryPublicLighting: "lighting",
	CategoryVandalism:      "vandalism",
	CategoryOther:          "other",
}

// CategoryIcon returns the icon name for a category, falling back to the
// generic alert icon.
func CategoryIcon(c Category) string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[CategoryOther]
}

// GlowRadius scales a marker's glow with its upvote count.
func GlowRadius(upvotes int) int {
	switch {
	case upvotes < 25:
		return 0
	case upvotes < 50:
		return 8
	case upvotes < 100:
		return 12
	}
	return 16
}

// IconSize grows a marker with its upvote count, capped at +16px.
func IconSize(upvotes int) int {
	const base = 40
	inc := upvotes / 5 * 2
	if inc > 16 {
		inc = 16
	}
	return base + inc
}

// HeatWeight maps a severity to a heatmap point intensity.
func HeatWeight(s SeverityLevel) float64 {
	switch s {
	case SeverityLow:
		return 0.25
	case SeverityMedium:
		return 0.5
	case SeverityHigh:
		return 0.75
	case SeverityCritical:
		return 1.0
	}
	return 0.5
}
