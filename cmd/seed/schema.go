// cmd/seed/schema.go
package main

import (
	"fmt"
	"log"

	"github.com/urfave/cli/v2"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		category         TEXT NOT NULL DEFAULT 'General',
		quantity         INTEGER NOT NULL DEFAULT 0,
		unit             TEXT NOT NULL,
		min_threshold    INTEGER NOT NULL DEFAULT 10,
		max_threshold    INTEGER NOT NULL DEFAULT 100,
		cost             JSONB NOT NULL DEFAULT '{}'::jsonb,
		location         JSONB NOT NULL DEFAULT '{}'::jsonb,
		expiry_date      TIMESTAMPTZ,
		batch_number     TEXT,
		usage_history    JSONB NOT NULL DEFAULT '[]'::jsonb,
		restock_history  JSONB NOT NULL DEFAULT '[]'::jsonb,
		demand_pattern   JSONB NOT NULL DEFAULT '{}'::jsonb,
		predicted_demand JSONB NOT NULL DEFAULT '{}'::jsonb,
		ai_insights      JSONB NOT NULL DEFAULT '{}'::jsonb,
		alerts           JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_items_category ON inventory_items (category)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_items_expiry ON inventory_items (expiry_date)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		message         TEXT NOT NULL,
		type            TEXT NOT NULL DEFAULT 'general',
		priority        TEXT NOT NULL DEFAULT 'medium',
		recipients      JSONB NOT NULL DEFAULT '[]'::jsonb,
		source          JSONB NOT NULL DEFAULT '{}'::jsonb,
		ai_generated    BOOLEAN NOT NULL DEFAULT FALSE,
		action_required BOOLEAN NOT NULL DEFAULT FALSE,
		action_text     TEXT,
		action_url      TEXT,
		ai_insights     JSONB NOT NULL DEFAULT '{}'::jsonb,
		analytics       JSONB NOT NULL DEFAULT '{}'::jsonb,
		resolved        BOOLEAN NOT NULL DEFAULT FALSE,
		resolved_at     TIMESTAMPTZ,
		resolved_by     TEXT,
		expires_at      TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_type ON notifications (type)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_priority ON notifications (priority)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipients ON notifications USING GIN (recipients)`,
}

func runSchema(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(c.Context, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	log.Println("schema created")
	return nil
}
