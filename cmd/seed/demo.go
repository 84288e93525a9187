// cmd/seed/demo.go
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/dapurlink/caterwatch/internal/domain"
)

type demoItem struct {
	name         string
	category     string
	quantity     int
	unit         string
	minThreshold int
	maxThreshold int
	unitCost     float64
	supplier     string
	expiryDays   int // 0 means no expiry
	avgDailyUse  int
}

var demoItems = []demoItem{
	{"Jasmine Rice", "Staples", 80, "kg", 20, 150, 1.20, "Golden Grain Co", 0, 6},
	{"Chicken Breast", "Protein", 25, "kg", 15, 60, 5.50, "Fresh Farm Poultry", 5, 8},
	{"Cooking Oil", "Staples", 30, "liter", 10, 80, 2.80, "Sunrise Oils", 90, 3},
	{"Coconut Milk", "Dairy & Alternatives", 18, "liter", 12, 50, 1.90, "Tropical Supply", 10, 4},
	{"Disposable Trays", "Packaging", 450, "pcs", 100, 1000, 0.15, "PackRight", 0, 35},
	{"Fresh Basil", "Produce", 4, "kg", 5, 15, 8.00, "Green Leaf Gardens", 3, 1},
	{"Soy Sauce", "Condiments", 12, "liter", 6, 40, 3.20, "Umami House", 180, 1},
	{"Paper Napkins", "Packaging", 1200, "pcs", 300, 3000, 0.02, "PackRight", 0, 90},
}

func runDemoSeed(c *cli.Context) error {
	db, err := dbFromContext(c)
	if err != nil {
		return err
	}

	historyDays := c.Int("history-days")
	if historyDays <= 0 {
		historyDays = 30
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()
	inserted := 0

	for _, d := range demoItems {
		item := buildDemoItem(d, historyDays, now, rng)
		if err := insertItem(c, db, item); err != nil {
			return fmt.Errorf("failed to insert %s: %w", d.name, err)
		}
		inserted++
	}

	log.Printf("seeded %d demo inventory items with %d days of usage history", inserted, historyDays)
	return nil
}

func buildDemoItem(d demoItem, historyDays int, now time.Time, rng *rand.Rand) *domain.InventoryItem {
	unitCost := decimal.NewFromFloat(d.unitCost)

	item := &domain.InventoryItem{
		ID:           uuid.NewString(),
		Name:         d.name,
		Category:     d.category,
		Quantity:     d.quantity,
		Unit:         d.unit,
		MinThreshold: d.minThreshold,
		MaxThreshold: d.maxThreshold,
		Cost: domain.ItemCost{
			UnitCost:  unitCost,
			TotalCost: unitCost.Mul(decimal.NewFromInt(int64(d.quantity))),
			Supplier:  d.supplier,
		},
		Location: domain.Location{
			Warehouse: "main",
			Section:   d.category,
		},
		CreatedAt: now.AddDate(0, 0, -historyDays),
		UpdatedAt: now,
	}

	if d.expiryDays > 0 {
		expiry := now.AddDate(0, 0, d.expiryDays)
		item.ExpiryDate = &expiry
	}

	// Synthetic usage: roughly the item's average with day-to-day jitter,
	// skipping the occasional quiet day.
	for day := historyDays; day > 0; day-- {
		if rng.Intn(10) == 0 {
			continue
		}
		used := d.avgDailyUse + rng.Intn(d.avgDailyUse+1) - d.avgDailyUse/2
		if used <= 0 {
			continue
		}
		item.UsageHistory = append(item.UsageHistory, domain.UsageEntry{
			Date:         now.AddDate(0, 0, -day),
			QuantityUsed: used,
			Purpose:      "event catering",
		})
	}

	return item
}

func insertItem(c *cli.Context, db *sql.DB, item *domain.InventoryItem) error {
	costDoc, err := json.Marshal(item.Cost)
	if err != nil {
		return err
	}
	locationDoc, err := json.Marshal(item.Location)
	if err != nil {
		return err
	}
	usageDoc, err := json.Marshal(item.UsageHistory)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO inventory_items (
			id, name, category, quantity, unit, min_threshold, max_threshold,
			cost, location, expiry_date, batch_number,
			usage_history, restock_history, demand_pattern, predicted_demand,
			ai_insights, alerts, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, '[]', '{}', '{}', '{}', '[]', $13, $14)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = db.ExecContext(c.Context, query,
		item.ID, item.Name, item.Category, item.Quantity, item.Unit,
		item.MinThreshold, item.MaxThreshold, costDoc, locationDoc,
		item.ExpiryDate, nullIfEmpty(item.BatchNumber), usageDoc,
		item.CreatedAt, item.UpdatedAt,
	)
	return err
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
