package database

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"
)

// InitSchema creates the reports table if it doesn't exist.
func InitSchema(db *sql.DB) error {
	log.Info("Initializing reports database schema...")

	reportsTableSQL := `
	CREATE TABLE IF NOT EXISTS reports(
		id INT NOT NULL AUTO_INCREMENT,
		name VARCHAR(255) NOT NULL,
		date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		address VARCHAR(255) NOT NULL,
		category VARCHAR(32) NOT NULL,
		severity VARCHAR(16) NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'PENDING',
		images_json JSON,
		description TEXT,
		upvotes INT NOT NULL DEFAULT 0,
		PRIMARY KEY (id),
		INDEX category_index (category),
		INDEX status_index (status),
		INDEX severity_index (severity)
	)`

	if _, err := db.Exec(reportsTableSQL); err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}
	log.Info("Reports table created/verified")

	return nil
}
