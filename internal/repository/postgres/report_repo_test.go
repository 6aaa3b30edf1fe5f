package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/hacknova/airwatch/internal/model"
)

func TestReportRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewReportRepo(db)
	ctx := context.Background()

	rp := &model.Report{
		ID:          uuid.Must(uuid.NewV4()),
		Type:        "dust",
		Lat:         12.93,
		Lng:         77.62,
		Description: "visible dust cloud near the site",
		Status:      model.ReportPending,
		Timestamp:   time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(`INSERT INTO reports \(id, type, lat, lng, description, status, ts\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)`).
		WithArgs(rp.ID, rp.Type, rp.Lat, rp.Lng, rp.Description, rp.Status, rp.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, rp))
}

func TestReportRepo_ListAll_DescendingOrder(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewReportRepo(db)
	ctx := context.Background()

	t1 := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC)
	id1 := uuid.Must(uuid.NewV4())
	id2 := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT id, type, lat, lng, description, status, ts FROM reports ORDER BY ts DESC`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "type", "lat", "lng", "description", "status", "ts"}).
			AddRow(id2, "smoke", 12.99, 77.49, "later", "Pending", t2).
			AddRow(id1, "dust", 12.93, 77.62, "earlier", "Pending", t1))

	out, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, id2, out[0].ID)
	require.Equal(t, id1, out[1].ID)
	require.True(t, out[0].Timestamp.After(out[1].Timestamp))
}
