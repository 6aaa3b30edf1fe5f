package repository

import (
	"context"

	"github.com/hacknova/airwatch/internal/model"
)

// ReportRepository stores citizen incident reports.
type ReportRepository interface {
	// Create appends a new report.
	Create(ctx context.Context, r *model.Report) error
	// ListAll returns every report, most recent first.
	ListAll(ctx context.Context) ([]model.Report, error)
}
