package models

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
)

// Database stores channel stats snapshots in SQLite Cloud so repeated
// lookups within the same day can skip the upstream API.
type Database struct {
	db *sqlitecloud.SQCloud
}

// NewDatabase creates a new database connection
func NewDatabase(connStr string) (*Database, error) {
	log.Printf("Connecting to SQLite Cloud database: %s", maskConnectionString(connStr))

	db, err := sqlitecloud.Connect(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %v", err)
	}

	database := &Database{
		db: db,
	}

	// Create tables if they don't exist
	if err := database.createTables(); err != nil {
		return nil, err
	}

	return database, nil
}

// maskConnectionString hides the API key in logs for security
func maskConnectionString(connStr string) string {
	if strings.Contains(connStr, "apikey=") {
		parts := strings.Split(connStr, "apikey=")
		if len(parts) > 1 {
			return parts[0] + "apikey=***"
		}
	}
	return connStr
}

// createTables creates the necessary tables if they don't exist
func (d *Database) createTables() error {
	sql := `CREATE TABLE IF NOT EXISTS channel_stats_snapshot (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		channel_identifier TEXT NOT NULL,
		video_count INTEGER NOT NULL,
		json_response TEXT NOT NULL,
		create_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		update_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT unique_channel_snapshot UNIQUE(channel_identifier, video_count)
	)`

	if err := d.db.Execute(sql); err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}
	return nil
}

// StoreSnapshot inserts or refreshes the cached stats for an identifier.
// Snapshots are keyed by the identifier as requested, not the resolved
// channel ID, so handle and ID lookups cache independently.
func (d *Database) StoreSnapshot(identifier string, videoCount int, stats *ChannelStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	sql := `INSERT INTO channel_stats_snapshot (channel_identifier, video_count, json_response)
			VALUES (?, ?, ?)
			ON CONFLICT(channel_identifier, video_count)
			DO UPDATE SET json_response = excluded.json_response, update_date = CURRENT_TIMESTAMP`

	return d.db.ExecuteArray(sql, []interface{}{identifier, videoCount, string(data)})
}

// GetSnapshot retrieves the cached stats for an identifier along with the
// time they were last refreshed. A missing snapshot returns nil without
// error.
func (d *Database) GetSnapshot(identifier string, videoCount int) (*ChannelStats, time.Time, error) {
	sql := `SELECT json_response, update_date FROM channel_stats_snapshot
			WHERE channel_identifier = ? AND video_count = ?
			ORDER BY update_date DESC LIMIT 1`

	result, err := d.db.SelectArray(sql, []interface{}{identifier, videoCount})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to get snapshot: %v", err)
	}

	if result.GetNumberOfRows() == 0 {
		return nil, time.Time{}, nil
	}

	data, err := result.GetStringValue(0, 0)
	if err != nil {
		return nil, time.Time{}, err
	}

	updatedRaw, err := result.GetStringValue(0, 1)
	if err != nil {
		return nil, time.Time{}, err
	}

	updated, err := time.Parse("2006-01-02 15:04:05", updatedRaw)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse update_date: %v", err)
	}

	var stats ChannelStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, time.Time{}, err
	}

	return &stats, updated, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
