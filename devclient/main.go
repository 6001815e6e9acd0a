// Dev/test client for dev/test/troubleshooting.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"

	"citypulse/client"
	"citypulse/models"

	"github.com/apex/log"
)

var serviceURL = flag.String("url", "http://127.0.0.1:8080", "Base URL of the reports service.")

func randomizeFloat(v, spread float64) float64 {
	return v + rand.Float64()*2*spread - spread
}

func doHealth(ctx context.Context, api *client.Client) {
	log.Info("doHealth()")
	if err := api.Health(ctx); err != nil {
		log.Errorf("Failed to call the server with %v", err)
		return
	}
	log.Info("Done, server is up")
}

func doCreate(ctx context.Context, api *client.Client) *models.Report {
	log.Info("doCreate()")
	report, err := api.CreateReport(ctx, &models.CreateReportRequest{
		Name: fmt.Sprintf("Dev pothole %X", rand.Uint32()),
		Location: &models.Location{
			Lat: randomizeFloat(46.7712, 0.02),
			Lng: randomizeFloat(23.6236, 0.03),
		},
		Address:       "Piata Unirii, Cluj-Napoca",
		Category:      models.CategoryPothole,
		SeverityLevel: models.SeverityMedium,
		Description:   "Created by the dev client.",
	})
	if err != nil {
		log.Errorf("Failed to call the server with %v", err)
		return nil
	}
	log.Infof("Done, created report %d", report.ID)
	return report
}

func doList(ctx context.Context, api *client.Client) {
	log.Info("doList()")
	reports, err := api.ListReports(ctx, client.Filters{Category: string(models.CategoryPothole)})
	if err != nil {
		log.Errorf("Failed to call the server with %v", err)
		return
	}
	log.Infof("Done, %d reports", len(reports))
}

func doUpdate(ctx context.Context, api *client.Client, id int) {
	log.Info("doUpdate()")
	status := models.StatusWorking
	report, err := api.UpdateReport(ctx, id, &models.UpdateReportRequest{Status: &status})
	if err != nil {
		log.Errorf("Failed to call the server with %v", err)
		return
	}
	log.Infof("Done, report %d now %s", report.ID, report.Status)
}

func doDelete(ctx context.Context, api *client.Client, id int) {
	log.Info("doDelete()")
	if err := api.DeleteReport(ctx, id); err != nil {
		log.Errorf("Failed to call the server with %v", err)
		return
	}
	log.Infof("Done, report %d deleted", id)
}

func main() {
	flag.Parse()

	ctx := context.Background()
	api := client.NewClient(*serviceURL)

	doHealth(ctx, api)
	report := doCreate(ctx, api)
	doList(ctx, api)
	if report != nil {
		doUpdate(ctx, api, report.ID)
		doDelete(ctx, api, report.ID)
	}
}
