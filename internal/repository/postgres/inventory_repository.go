// internal/repository/postgres/inventory_repository.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

// inventoryRow mirrors the inventory_items table. The histories and derived
// insight documents live in JSONB columns.
type inventoryRow struct {
	ID              string         `db:"id"`
	Name            string         `db:"name"`
	Category        string         `db:"category"`
	Quantity        int            `db:"quantity"`
	Unit            string         `db:"unit"`
	MinThreshold    int            `db:"min_threshold"`
	MaxThreshold    int            `db:"max_threshold"`
	Cost            []byte         `db:"cost"`
	Location        []byte         `db:"location"`
	ExpiryDate      *time.Time     `db:"expiry_date"`
	BatchNumber     sql.NullString `db:"batch_number"`
	UsageHistory    []byte         `db:"usage_history"`
	RestockHistory  []byte         `db:"restock_history"`
	DemandPattern   []byte         `db:"demand_pattern"`
	PredictedDemand []byte         `db:"predicted_demand"`
	AIInsights      []byte         `db:"ai_insights"`
	Alerts          []byte         `db:"alerts"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

const inventoryColumns = `
	id, name, category, quantity, unit, min_threshold, max_threshold,
	cost, location, expiry_date, batch_number,
	usage_history, restock_history, demand_pattern, predicted_demand,
	ai_insights, alerts, created_at, updated_at
`

func (r *inventoryRepository) GetAll(ctx context.Context) ([]*domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items ORDER BY created_at DESC`

	var rows []inventoryRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("error listing inventory items: %w", err)
	}

	items := make([]*domain.InventoryItem, 0, len(rows))
	for i := range rows {
		item, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *inventoryRepository) GetByID(ctx context.Context, id string) (*domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1`

	var row inventoryRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error getting inventory item %s: %w", id, err)
	}

	return row.toDomain()
}

func (r *inventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	row, err := inventoryRowFromDomain(item)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO inventory_items (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	if _, err := r.db.ExecContext(ctx, query,
		row.ID, row.Name, row.Category, row.Quantity, row.Unit,
		row.MinThreshold, row.MaxThreshold, row.Cost, row.Location,
		row.ExpiryDate, row.BatchNumber, row.UsageHistory, row.RestockHistory,
		row.DemandPattern, row.PredictedDemand, row.AIInsights, row.Alerts,
		row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return fmt.Errorf("error creating inventory item: %w", err)
	}

	return nil
}

func (r *inventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	item.UpdatedAt = time.Now()
	row, err := inventoryRowFromDomain(item)
	if err != nil {
		return err
	}

	query := `
		UPDATE inventory_items SET
			name = $2, category = $3, quantity = $4, unit = $5,
			min_threshold = $6, max_threshold = $7, cost = $8, location = $9,
			expiry_date = $10, batch_number = $11,
			usage_history = $12, restock_history = $13,
			demand_pattern = $14, predicted_demand = $15,
			ai_insights = $16, alerts = $17, updated_at = $18
		WHERE id = $1
	`

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			row.ID, row.Name, row.Category, row.Quantity, row.Unit,
			row.MinThreshold, row.MaxThreshold, row.Cost, row.Location,
			row.ExpiryDate, row.BatchNumber, row.UsageHistory, row.RestockHistory,
			row.DemandPattern, row.PredictedDemand, row.AIInsights, row.Alerts,
			row.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error updating inventory item %s: %w", item.ID, err)
		}

		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return repository.ErrNotFound
		}

		return nil
	})
}

func (r *inventoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting inventory item %s: %w", id, err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (row *inventoryRow) toDomain() (*domain.InventoryItem, error) {
	item := &domain.InventoryItem{
		ID:           row.ID,
		Name:         row.Name,
		Category:     row.Category,
		Quantity:     row.Quantity,
		Unit:         row.Unit,
		MinThreshold: row.MinThreshold,
		MaxThreshold: row.MaxThreshold,
		ExpiryDate:   row.ExpiryDate,
		BatchNumber:  row.BatchNumber.String,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}

	for _, doc := range []struct {
		data []byte
		dst  interface{}
	}{
		{row.Cost, &item.Cost},
		{row.Location, &item.Location},
		{row.UsageHistory, &item.UsageHistory},
		{row.RestockHistory, &item.RestockHistory},
		{row.DemandPattern, &item.DemandPattern},
		{row.PredictedDemand, &item.Predicted},
		{row.AIInsights, &item.Insights},
		{row.Alerts, &item.Alerts},
	} {
		if len(doc.data) == 0 {
			continue
		}
		if err := json.Unmarshal(doc.data, doc.dst); err != nil {
			return nil, fmt.Errorf("decode inventory item %s: %w", row.ID, err)
		}
	}

	return item, nil
}

func inventoryRowFromDomain(item *domain.InventoryItem) (*inventoryRow, error) {
	row := &inventoryRow{
		ID:           item.ID,
		Name:         item.Name,
		Category:     item.Category,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		MinThreshold: item.MinThreshold,
		MaxThreshold: item.MaxThreshold,
		ExpiryDate:   item.ExpiryDate,
		BatchNumber:  nullIfEmpty(item.BatchNumber),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}

	for _, doc := range []struct {
		src interface{}
		dst *[]byte
	}{
		{item.Cost, &row.Cost},
		{item.Location, &row.Location},
		{item.UsageHistory, &row.UsageHistory},
		{item.RestockHistory, &row.RestockHistory},
		{item.DemandPattern, &row.DemandPattern},
		{item.Predicted, &row.PredictedDemand},
		{item.Insights, &row.AIInsights},
		{item.Alerts, &row.Alerts},
	} {
		data, err := json.Marshal(doc.src)
		if err != nil {
			return nil, fmt.Errorf("encode inventory item %s: %w", item.ID, err)
		}
		*doc.dst = data
	}

	return row, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
