package db

import (
	"context"
	"fmt"
)

// sqliteSchema mirrors the goose migrations for the sqlite dialect, which
// has no uuid type, no gen_random_uuid() and no TIMESTAMPTZ.
var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS cars (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		year INTEGER NOT NULL,
		price TEXT NOT NULL,
		price_currency TEXT NOT NULL DEFAULT 'USD',
		original_price TEXT,
		status TEXT NOT NULL DEFAULT 'available',
		category TEXT,
		location TEXT,
		mileage TEXT,
		mileage_unit TEXT NOT NULL DEFAULT 'miles',
		engine TEXT,
		horsepower TEXT,
		transmission TEXT,
		exterior_color TEXT,
		interior_color TEXT,
		description TEXT,
		is_featured BOOLEAN NOT NULL DEFAULT 0,
		is_exclusive BOOLEAN NOT NULL DEFAULT 0,
		badge TEXT,
		slug TEXT NOT NULL,
		meta_title TEXT NOT NULL,
		meta_description TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS car_images (
		id TEXT PRIMARY KEY,
		car_id TEXT NOT NULL REFERENCES cars(id) ON DELETE CASCADE,
		image_url TEXT NOT NULL,
		image_type TEXT NOT NULL DEFAULT 'exterior',
		sort_order INTEGER NOT NULL DEFAULT 0,
		gallery_selected BOOLEAN NOT NULL DEFAULT 0,
		alt_text TEXT,
		caption TEXT,
		file_size INTEGER,
		format TEXT,
		storage_path TEXT,
		width INTEGER,
		height INTEGER,
		created_at DATETIME
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS car_images_one_primary_idx ON car_images (car_id) WHERE image_type = 'primary'`,
	`CREATE TABLE IF NOT EXISTS car_features (
		id TEXT PRIMARY KEY,
		car_id TEXT NOT NULL REFERENCES cars(id) ON DELETE CASCADE,
		feature_name TEXT NOT NULL,
		feature_value TEXT,
		feature_category TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS virtual_tours (
		id TEXT PRIMARY KEY,
		car_id TEXT NOT NULL UNIQUE REFERENCES cars(id) ON DELETE CASCADE,
		video_url TEXT NOT NULL,
		tour_title TEXT,
		tour_description TEXT,
		video_thumbnail TEXT,
		video_duration INTEGER,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL DEFAULT 'user'
	)`,
}

// ApplySQLiteSchema creates the tables for local sqlite runs and tests.
func (c *Client) ApplySQLiteSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if err := c.conn.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("applying sqlite schema: %w", err)
		}
	}
	return nil
}
