// internal/service/report_service.go
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dapurlink/caterwatch/internal/domain"
	"github.com/dapurlink/caterwatch/internal/repository"
	"github.com/dapurlink/caterwatch/internal/storage"
)

const reportPrefix = "reports/"

// ReportService renders CSV exports of inventory state and notification
// engagement. Storage is optional; without it reports are returned inline
// only.
type ReportService struct {
	inventory     repository.InventoryRepository
	notifications repository.NotificationRepository
	storage       storage.ObjectStorage
}

func NewReportService(inventory repository.InventoryRepository, notifications repository.NotificationRepository, store storage.ObjectStorage) *ReportService {
	return &ReportService{
		inventory:     inventory,
		notifications: notifications,
		storage:       store,
	}
}

// Report is one rendered CSV export.
type Report struct {
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Rows        int       `json:"rows"`
	GeneratedAt time.Time `json:"generated_at"`
	Uploaded    bool      `json:"uploaded"`
	Data        []byte    `json:"-"`
}

// InventoryStatusReport exports every item's stock position alongside its
// derived demand and risk figures.
func (s *ReportService) InventoryStatusReport(ctx context.Context) (*Report, error) {
	items, err := s.inventory.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	now := time.Now()
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Name", "Category", "Quantity", "Unit", "Min Threshold", "Max Threshold", "Avg Daily Usage", "Predicted Next Week", "Confidence", "Reorder Point", "Optimal Stock", "Wastage Risk", "Days To Expiry", "Recommended Actions"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, item := range items {
		daysToExpiry := ""
		if item.ExpiryDate != nil {
			daysToExpiry = strconv.Itoa(domain.DaysUntil(now, *item.ExpiryDate))
		}

		record := []string{
			item.Name,
			item.Category,
			fmt.Sprintf("%d", item.Quantity),
			item.Unit,
			fmt.Sprintf("%d", item.MinThreshold),
			fmt.Sprintf("%d", item.MaxThreshold),
			fmt.Sprintf("%.2f", item.DemandPattern.AvgDaily()),
			fmt.Sprintf("%d", item.Predicted.NextWeek),
			fmt.Sprintf("%.2f", item.Predicted.Confidence),
			fmt.Sprintf("%d", item.Insights.ReorderPoint),
			fmt.Sprintf("%d", item.Insights.OptimalStockLevel),
			fmt.Sprintf("%.2f", item.Insights.WastageRisk),
			daysToExpiry,
			strings.Join(item.Insights.RecommendedActions, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%sinventory_status_%s.csv", reportPrefix, now.Format("20060102_150405"))
	return s.finish(ctx, key, buf.Bytes(), len(items), now)
}

// NotificationEffectivenessReport exports engagement analytics for the most
// recent notifications.
func (s *ReportService) NotificationEffectivenessReport(ctx context.Context, rangeDays int) (*Report, error) {
	if rangeDays <= 0 {
		rangeDays = defaultStatsRangeDays
	}

	notifications, err := s.notifications.List(ctx, domain.NotificationFilter{Limit: 100})
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	now := time.Now()
	since := now.AddDate(0, 0, -rangeDays)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Title", "Type", "Priority", "Recipients", "Views", "Clicks", "Actions", "Effectiveness", "Resolved", "Created At"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	rows := 0
	for _, n := range notifications {
		if n.CreatedAt.Before(since) {
			continue
		}

		record := []string{
			n.Title,
			string(n.Type),
			string(n.Priority),
			fmt.Sprintf("%d", len(n.Recipients)),
			fmt.Sprintf("%d", n.Analytics.Views),
			fmt.Sprintf("%d", n.Analytics.Clicks),
			fmt.Sprintf("%d", n.Analytics.Actions),
			fmt.Sprintf("%d", n.Analytics.Effectiveness),
			strconv.FormatBool(n.Resolved),
			n.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
		rows++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%snotification_effectiveness_%s.csv", reportPrefix, now.Format("20060102_150405"))
	return s.finish(ctx, key, buf.Bytes(), rows, now)
}

// ListReports returns previously uploaded report objects.
func (s *ReportService) ListReports(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.storage == nil {
		return []storage.ObjectInfo{}, nil
	}
	return s.storage.ListObjects(ctx, reportPrefix)
}

func (s *ReportService) finish(ctx context.Context, key string, data []byte, rows int, now time.Time) (*Report, error) {
	report := &Report{
		Key:         key,
		ContentType: "text/csv",
		Rows:        rows,
		GeneratedAt: now,
		Data:        data,
	}

	if s.storage == nil {
		return report, nil
	}

	if err := s.storage.UploadObject(ctx, key, data); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("report upload failed, serving inline only")
		return report, nil
	}

	report.Uploaded = true
	return report, nil
}
