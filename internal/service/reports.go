package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/hacknova/airwatch/internal/broadcast"
	"github.com/hacknova/airwatch/internal/model"
	"github.com/hacknova/airwatch/internal/repository"
)

// ReportService covers citizen incident reports.
type ReportService interface {
	// Create files a new report and fans it out to subscribers.
	Create(ctx context.Context, typ string, lat, lng float64, description string) (model.Report, error)
	// List returns every report, most recent first.
	List(ctx context.Context) ([]model.Report, error)
}

type ReportServiceImpl struct {
	reports repository.ReportRepository
	pub     broadcast.Publisher
	now     func() time.Time
}

// NewReportService constructs ReportService with required dependencies.
func NewReportService(reports repository.ReportRepository, pub broadcast.Publisher) *ReportServiceImpl {
	return &ReportServiceImpl{reports: reports, pub: pub, now: time.Now}
}

// Create persists the report and, only on success, publishes it. Unlike
// ingestion, report filing is an explicit CRUD operation: a storage failure
// surfaces to the caller.
func (s *ReportServiceImpl) Create(ctx context.Context, typ string, lat, lng float64, description string) (model.Report, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.Report{}, err
	}
	rp := model.Report{
		ID:          id,
		Type:        typ,
		Lat:         lat,
		Lng:         lng,
		Description: description,
		Status:      model.ReportPending,
		Timestamp:   s.now(),
	}
	if err := s.reports.Create(ctx, &rp); err != nil {
		return model.Report{}, err
	}

	s.pub.Publish(broadcast.EventNewReport, rp)
	return rp, nil
}

// List returns all reports in reverse-chronological order.
func (s *ReportServiceImpl) List(ctx context.Context) ([]model.Report, error) {
	return s.reports.ListAll(ctx)
}
