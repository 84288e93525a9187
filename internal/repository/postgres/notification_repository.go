// internal/repository/postgres/notification_repository.go
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

type notificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

type notificationRow struct {
	ID             string         `db:"id"`
	Title          string         `db:"title"`
	Message        string         `db:"message"`
	Type           string         `db:"type"`
	Priority       string         `db:"priority"`
	Recipients     []byte         `db:"recipients"`
	Source         []byte         `db:"source"`
	AIGenerated    bool           `db:"ai_generated"`
	ActionRequired bool           `db:"action_required"`
	ActionText     sql.NullString `db:"action_text"`
	ActionURL      sql.NullString `db:"action_url"`
	Insights       []byte         `db:"ai_insights"`
	Analytics      []byte         `db:"analytics"`
	Resolved       bool           `db:"resolved"`
	ResolvedAt     *time.Time     `db:"resolved_at"`
	ResolvedBy     sql.NullString `db:"resolved_by"`
	ExpiresAt      *time.Time     `db:"expires_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

const notificationColumns = `
	id, title, message, type, priority, recipients, source,
	ai_generated, action_required, action_text, action_url,
	ai_insights, analytics, resolved, resolved_at, resolved_by,
	expires_at, created_at, updated_at
`

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	row, err := notificationRowFromDomain(n)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	if _, err := r.db.ExecContext(ctx, query,
		row.ID, row.Title, row.Message, row.Type, row.Priority,
		row.Recipients, row.Source, row.AIGenerated, row.ActionRequired,
		row.ActionText, row.ActionURL, row.Insights, row.Analytics,
		row.Resolved, row.ResolvedAt, row.ResolvedBy, row.ExpiresAt,
		row.CreatedAt, row.UpdatedAt,
	); err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	var row notificationRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error getting notification %s: %w", id, err)
	}

	return row.toDomain()
}

func (r *notificationRepository) List(ctx context.Context, filter domain.NotificationFilter) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE 1=1`

	var args []interface{}
	argCounter := 1

	if filter.UserID != "" {
		query += fmt.Sprintf(` AND recipients @> $%d::jsonb`, argCounter)
		args = append(args, fmt.Sprintf(`[{"user_id":%q}]`, filter.UserID))
		argCounter++
	}

	if filter.Role != "" {
		query += fmt.Sprintf(` AND recipients @> $%d::jsonb`, argCounter)
		args = append(args, fmt.Sprintf(`[{"role":%q}]`, filter.Role))
		argCounter++
	}

	if filter.Type != "" {
		query += fmt.Sprintf(` AND type = $%d`, argCounter)
		args = append(args, string(filter.Type))
		argCounter++
	}

	if filter.Priority != "" {
		query += fmt.Sprintf(` AND priority = $%d`, argCounter)
		args = append(args, string(filter.Priority))
		argCounter++
	}

	if filter.UnreadOnly {
		query += ` AND recipients @> '[{"read":false}]'::jsonb`
	}

	if filter.Unresolved {
		query += ` AND resolved = false`
	}

	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query += fmt.Sprintf(` LIMIT $%d`, argCounter)
	args = append(args, limit)
	argCounter++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argCounter)
		args = append(args, filter.Offset)
	}

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	notifications := make([]*domain.Notification, 0, len(rows))
	for i := range rows {
		n, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, nil
}

func (r *notificationRepository) Update(ctx context.Context, n *domain.Notification) error {
	n.UpdatedAt = time.Now()
	row, err := notificationRowFromDomain(n)
	if err != nil {
		return err
	}

	query := `
		UPDATE notifications SET
			title = $2, message = $3, type = $4, priority = $5,
			recipients = $6, source = $7, ai_generated = $8,
			action_required = $9, action_text = $10, action_url = $11,
			ai_insights = $12, analytics = $13, resolved = $14,
			resolved_at = $15, resolved_by = $16, expires_at = $17,
			updated_at = $18
		WHERE id = $1
	`

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			row.ID, row.Title, row.Message, row.Type, row.Priority,
			row.Recipients, row.Source, row.AIGenerated, row.ActionRequired,
			row.ActionText, row.ActionURL, row.Insights, row.Analytics,
			row.Resolved, row.ResolvedAt, row.ResolvedBy, row.ExpiresAt,
			row.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error updating notification %s: %w", n.ID, err)
		}

		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return repository.ErrNotFound
		}

		return nil
	})
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting notification %s: %w", id, err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *notificationRepository) GetStats(ctx context.Context, since time.Time) (*domain.NotificationStats, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE resolved = false) AS unresolved,
			COUNT(*) FILTER (WHERE priority = 'critical') AS critical,
			COUNT(*) FILTER (WHERE priority = 'high') AS high,
			COUNT(*) FILTER (WHERE priority = 'medium') AS medium,
			COUNT(*) FILTER (WHERE priority = 'low') AS low,
			COUNT(*) FILTER (WHERE ai_generated = true) AS ai_generated,
			COUNT(*) FILTER (WHERE resolved = true) AS resolved,
			COALESCE(AVG((analytics->>'effectiveness')::numeric), 0) AS avg_effectiveness
		FROM notifications
		WHERE created_at >= $1
	`

	var stats domain.NotificationStats
	if err := r.db.GetContext(ctx, &stats, query, since); err != nil {
		return nil, fmt.Errorf("error getting notification stats: %w", err)
	}

	return &stats, nil
}

func (row *notificationRow) toDomain() (*domain.Notification, error) {
	n := &domain.Notification{
		ID:             row.ID,
		Title:          row.Title,
		Message:        row.Message,
		Type:           domain.NotificationType(row.Type),
		Priority:       domain.Priority(row.Priority),
		AIGenerated:    row.AIGenerated,
		ActionRequired: row.ActionRequired,
		ActionText:     row.ActionText.String,
		ActionURL:      row.ActionURL.String,
		Resolved:       row.Resolved,
		ResolvedAt:     row.ResolvedAt,
		ResolvedBy:     row.ResolvedBy.String,
		ExpiresAt:      row.ExpiresAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}

	for _, doc := range []struct {
		data []byte
		dst  interface{}
	}{
		{row.Recipients, &n.Recipients},
		{row.Source, &n.Source},
		{row.Insights, &n.Insights},
		{row.Analytics, &n.Analytics},
	} {
		if len(doc.data) == 0 {
			continue
		}
		if err := json.Unmarshal(doc.data, doc.dst); err != nil {
			return nil, fmt.Errorf("decode notification %s: %w", row.ID, err)
		}
	}

	return n, nil
}

func notificationRowFromDomain(n *domain.Notification) (*notificationRow, error) {
	row := &notificationRow{
		ID:             n.ID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           string(n.Type),
		Priority:       string(n.Priority),
		AIGenerated:    n.AIGenerated,
		ActionRequired: n.ActionRequired,
		ActionText:     nullIfEmpty(n.ActionText),
		ActionURL:      nullIfEmpty(n.ActionURL),
		Resolved:       n.Resolved,
		ResolvedAt:     n.ResolvedAt,
		ResolvedBy:     nullIfEmpty(n.ResolvedBy),
		ExpiresAt:      n.ExpiresAt,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}

	for _, doc := range []struct {
		src interface{}
		dst *[]byte
	}{
		{n.Recipients, &row.Recipients},
		{n.Source, &row.Source},
		{n.Insights, &row.Insights},
		{n.Analytics, &row.Analytics},
	} {
		data, err := json.Marshal(doc.src)
		if err != nil {
			return nil, fmt.Errorf("encode notification %s: %w", n.ID, err)
		}
		*doc.dst = data
	}

	return row, nil
}
