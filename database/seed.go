package database

import (
	"context"
	"fmt"
	"math/rand"

	"citypulse/models"

	"github.com/apex/log"
)

// Demo data for development and manual testing, loosely modeled on
// Cluj-Napoca. Enabled with SEED_DEMO_DATA=true.

const seedReportCount = 25

// Cluj-Napoca bounds.
var seedBounds = models.ViewPort{
	LatMin: 46.745,
	LatMax: 46.785,
	LonMin: 23.55,
	LonMax: 23.64,
}

var seedStreets = []string{
	"Calea Motilor",
	"Str. Regele Ferdinand",
	"Piata Unirii",
	"B-dul Eroilor",
	"Str. Memorandumului",
	"Calea Manastur",
	"Str. Horea",
	"Piata Mihai Viteazu",
	"B-dul 21 Decembrie 1989",
	"Str. Aurel Vlaicu",
	"Calea Dorobantilor",
	"Str. Observatorului",
}

type seedTemplate struct {
	names        []string
	descriptions []string
}

var seedTemplates = map[models.Category]seedTemplate{
	models.CategoryPothole: {
		names:        []string{"Large pothole in the road", "Cracked asphalt", "Sunken manhole cover"},
		descriptions: []string{"A dangerous pothole that needs urgent repair.", "The asphalt is cracked and sinking.", "Deep hole filled with water, risk of accidents."},
	},
	models.CategoryWaste: {
		names:        []string{"Uncollected garbage", "Overflowing containers", "Abandoned waste"},
		descriptions: []string{"Household garbage has not been collected for 3 days.", "The recycling containers are full.", "Someone dumped rubble on the green space."},
	},
	models.CategoryPollution: {
		names:        []string{"Heavy smoke near factory", "Polluted stream", "Strong chemical smell"},
		descriptions: []string{"Air quality has dropped noticeably around the plant.", "The water is discolored and smells bad.", "Persistent chemical odor in the area."},
	},
	models.CategoryPublicLighting: {
		names:        []string{"Broken street lamp", "Burned out street light", "Dark alley at night"},
		descriptions: []string{"This lamp post has not worked for a week.", "The whole alley between the buildings is dark.", "The light flickers, probably a short circuit."},
	},
	models.CategoryVandalism: {
		names:        []string{"Graffiti on building", "Broken park bench", "Vandalized bus stop"},
		descriptions: []string{"The historic building was covered in graffiti.", "Benches in the central park were broken.", "The bus stop windows were smashed."},
	},
	models.CategoryOther: {
		names:        []string{"Fallen tree branch", "Blocked drainage", "Damaged playground"},
		descriptions: []string{"A branch is blocking the sidewalk.", "Water pools here after every rain.", "The swing set is broken and unsafe."},
	},
}

var seedStatuses = []models.Status{
	models.StatusPending,
	models.StatusPending,
	models.StatusPending,
	models.StatusWorking,
	models.StatusPlanning,
	models.StatusDone,
}

var seedSeverities = []models.SeverityLevel{
	models.SeverityLow,
	models.SeverityMedium,
	models.SeverityMedium,
	models.SeverityHigh,
	models.SeverityCritical,
}

// SeedDemoData fills the store with randomized demo reports through the
// regular create/update path so every store backend can be seeded.
func SeedDemoData(ctx context.Context, store ReportStore, rng *rand.Rand) error {
	categories := models.Categories

	for i := 0; i < seedReportCount; i++ {
		category := categories[rng.Intn(len(categories))]
		tpl := seedTemplates[category]
		street := seedStreets[rng.Intn(len(seedStreets))]

		req := &models.CreateReportRequest{
			Name: tpl.names[rng.Intn(len(tpl.names))],
			Location: &models.Location{
				Lat: seedBounds.LatMin + rng.Float64()*(seedBounds.LatMax-seedBounds.LatMin),
				Lng: seedBounds.LonMin + rng.Float64()*(seedBounds.LonMax-seedBounds.LonMin),
			},
			Address:       fmt.Sprintf("%s, nr. %d, Cluj-Napoca", street, 1+rng.Intn(150)),
			Category:      category,
			SeverityLevel: seedSeverities[rng.Intn(len(seedSeverities))],
			Images:        []string{},
			Description:   tpl.descriptions[rng.Intn(len(tpl.descriptions))],
		}

		created, err := store.Create(ctx, req)
		if err != nil {
			return err
		}

		status := seedStatuses[rng.Intn(len(seedStatuses))]
		upvotes := rng.Intn(76)
		if _, err := store.UpdateByID(ctx, created.ID, &models.UpdateReportRequest{
			Status:  &status,
			Upvotes: &upvotes,
		}); err != nil {
			return err
		}
	}

	log.Infof("Seeded %d demo reports", seedReportCount)
	return nil
}
