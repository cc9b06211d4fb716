package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

func newTestRepository(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	wrapped := dbmetrics.Wrap(db, nil, "test")
	return NewRepository(wrapped), wrapped, mock
}

func bookingRow(id string, start, end time.Time, status domain.BookingStatus) []driver.Value {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []driver.Value{
		id, "owner-1", "svc-1", nil, nil, "customer-1", "Anna", nil,
		start, end, string(status), "25.50", "usd", nil, nil, nil, now, now,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newTestRepository(t)
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	b := &domain.Booking{
		ID:           "b-1",
		OwnerID:      "owner-1",
		ServiceID:    "svc-1",
		StaffID:      ptr.Ptr("staff-1"),
		CustomerID:   "customer-1",
		CustomerName: "Anna",
		StartTime:    time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC),
		Status:       domain.StatusPending,
		PriceAmount:  decimal.RequireFromString("25.50"),
		Currency:     "usd",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs("b-1", "owner-1", "svc-1", "staff-1", nil, "customer-1", "Anna", nil,
			b.StartTime, b.EndTime, "pending", sqlmock.AnyArg(), "usd").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	got, err := repo.Create(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_Conflict(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&pq.Error{Code: "23P01"})

	_, err := repo.Create(context.Background(), &domain.Booking{ID: "b-1"})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestRepository_GetByID(t *testing.T) {
	repo, _, mock := newTestRepository(t)
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, service_id")).
		WithArgs("b-1").
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(bookingRow("b-1", start, end, domain.StatusConfirmed)...))

	got, err := repo.GetByID(context.Background(), "b-1")
	require.NoError(t, err)

	assert.Equal(t, "b-1", got.ID)
	assert.Nil(t, got.StaffID)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	assert.True(t, got.PriceAmount.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, 60, got.DurationMinutes())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetByOwnerWithFilter(t *testing.T) {
	repo, _, mock := newTestRepository(t)
	dayStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	start := dayStart.Add(10 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM bookings WHERE owner_id = $1 AND staff_id = $2 AND start_time < $3 AND end_time > $4 AND status <> $5 ORDER BY start_time ASC",
	)).
		WithArgs("owner-1", "staff-1", dayEnd, dayStart, "cancelled").
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(bookingRow("b-1", start, start.Add(time.Hour), domain.StatusConfirmed)...).
			AddRow(bookingRow("b-2", start.Add(2*time.Hour), start.Add(3*time.Hour), domain.StatusPending)...))

	got, err := repo.GetByOwnerWithFilter(context.Background(), domain.OwnerBookingsFilter{
		OwnerID: "owner-1",
		StaffID: ptr.Ptr("staff-1"),
		From:    &dayStart,
		To:      &dayEnd,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b-2", got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByOwnerWithFilter_ForUpdateInTransaction(t *testing.T) {
	repo, wrapped, mock := newTestRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings WHERE owner_id = \$1 ORDER BY start_time ASC FOR UPDATE`).
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows(bookingColumns))
	mock.ExpectRollback()

	tx, err := wrapped.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), tx)

	got, err := repo.GetByOwnerWithFilter(ctx, domain.OwnerBookingsFilter{
		OwnerID:          "owner-1",
		IncludeCancelled: true,
		ForUpdate:        true,
	})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3")).
		WithArgs("confirmed", "b-1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "b-1", domain.StatusPending, domain.StatusConfirmed))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "b-1", domain.StatusPending, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestRepository_Cancel(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE bookings SET status = $1, cancellation_reason = $2, cancelled_at = NOW(), updated_at = NOW() WHERE id = $3 AND status IN ($4,$5)",
	)).
		WithArgs("cancelled", "payment_expired", "b-1", "pending", "confirmed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), "b-1", domain.CancelReasonPaymentExpired))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetCheckoutSession_NotFound(t *testing.T) {
	repo, _, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET checkout_session_id = $1")).
		WithArgs("cs_test_1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetCheckoutSession(context.Background(), "missing", "cs_test_1")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
