package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	hoursRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/business_hours"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByOwnerWithFilter(ctx context.Context, filter domain.OwnerBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	bookings, _ := args.Get(0).([]*domain.Booking)
	return bookings, args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	args := m.Called(ctx, id)
	service, _ := args.Get(0).(*domain.Service)
	return service, args.Error(1)
}

type mockHoursRepo struct{ mock.Mock }

func (m *mockHoursRepo) GetWithHierarchy(ctx context.Context, ownerID string, locationID *string) (*domain.BusinessHoursConfig, error) {
	args := m.Called(ctx, ownerID, locationID)
	config, _ := args.Get(0).(*domain.BusinessHoursConfig)
	return config, args.Error(1)
}

type slotsCounter struct{ observed []int }

func (c *slotsCounter) ObserveAvailableSlots(count int) {
	c.observed = append(c.observed, count)
}

type fixture struct {
	bookings *mockBookingRepo
	services *mockServiceRepo
	hours    *mockHoursRepo
	recorder *slotsCounter
	uc       *UseCase
}

func newFixture(settings availability.Settings) *fixture {
	f := &fixture{
		bookings: &mockBookingRepo{},
		services: &mockServiceRepo{},
		hours:    &mockHoursRepo{},
		recorder: &slotsCounter{},
	}
	f.uc = NewUseCase(f.bookings, f.services, f.hours, settings, f.recorder, logger.NewNop())
	return f
}

// 2025-03-10 - понедельник
var testDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func testService(duration int) *domain.Service {
	return &domain.Service{
		ID:              "svc-1",
		OwnerID:         "owner-1",
		Name:            "Haircut",
		DurationMinutes: duration,
		PriceAmount:     decimal.NewFromInt(40),
		Currency:        "usd",
		IsActive:        true,
	}
}

func mondayHours(open, closeTime string) *domain.BusinessHoursConfig {
	return &domain.BusinessHoursConfig{
		ID:      1,
		OwnerID: "owner-1",
		Hours: domain.WeekHours{
			Monday: &domain.DayHours{
				Open:  ptr.Ptr(types.TimeString(open)),
				Close: ptr.Ptr(types.TimeString(closeTime)),
			},
		},
	}
}

func bookingAt(start, end string) *domain.Booking {
	s, _ := types.TimeString(start).OnDate(testDate, time.UTC)
	e, _ := types.TimeString(end).OnDate(testDate, time.UTC)
	return &domain.Booking{ID: "b-" + start, OwnerID: "owner-1", StartTime: s, EndTime: e, Status: domain.StatusConfirmed}
}

func dayFilter(staffID *string) domain.OwnerBookingsFilter {
	from := testDate
	to := testDate.AddDate(0, 0, 1)
	return domain.OwnerBookingsFilter{OwnerID: "owner-1", StaffID: staffID, From: &from, To: &to}
}

func slots(values ...string) []types.TimeString {
	out := make([]types.TimeString, len(values))
	for i, v := range values {
		out[i] = types.TimeString(v)
	}
	return out
}

func TestExecute_EndToEnd(t *testing.T) {
	f := newFixture(availability.DefaultSettings())
	ctx := context.Background()

	f.services.On("GetByID", ctx, "svc-1").Return(testService(60), nil)
	f.hours.On("GetWithHierarchy", ctx, "owner-1", (*string)(nil)).Return(mondayHours("09:00", "12:00"), nil)
	f.bookings.On("GetByOwnerWithFilter", ctx, dayFilter(nil)).
		Return([]*domain.Booking{bookingAt("10:00", "11:00")}, nil)

	resp, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "svc-1"})
	require.NoError(t, err)

	assert.Equal(t, slots("09:00", "11:00"), resp.Slots)
	assert.Equal(t, "owner-1", resp.OwnerID)
	assert.Equal(t, types.TimeString("09:00"), resp.Open)
	assert.Equal(t, types.TimeString("12:00"), resp.Close)
	assert.Equal(t, []int{2}, f.recorder.observed)
	f.bookings.AssertExpectations(t)
}

func TestExecute_DefaultHoursWhenNotConfigured(t *testing.T) {
	f := newFixture(availability.DefaultSettings())
	ctx := context.Background()

	f.services.On("GetByID", ctx, "svc-1").Return(testService(30), nil)
	f.hours.On("GetWithHierarchy", ctx, "owner-1", (*string)(nil)).Return(nil, hoursRepo.ErrConfigNotFound)
	f.bookings.On("GetByOwnerWithFilter", ctx, dayFilter(nil)).Return([]*domain.Booking{}, nil)

	resp, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "svc-1"})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 16)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0])
	assert.Equal(t, types.TimeString("16:30"), resp.Slots[15])
}

func TestExecute_BrokenHoursFallBackToDefaults(t *testing.T) {
	f := newFixture(availability.DefaultSettings())
	ctx := context.Background()

	f.services.On("GetByID", ctx, "svc-1").Return(testService(480), nil)
	f.hours.On("GetWithHierarchy", ctx, "owner-1", (*string)(nil)).
		Return(nil, errors.Join(hoursRepo.ErrDecodeHours, errors.New("unexpected end of JSON input")))
	f.bookings.On("GetByOwnerWithFilter", ctx, dayFilter(nil)).Return(nil, nil)

	resp, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "svc-1"})
	require.NoError(t, err)
	assert.Equal(t, slots("09:00"), resp.Slots)
}

func TestExecute_StaffAndLocationAreForwarded(t *testing.T) {
	f := newFixture(availability.DefaultSettings())
	ctx := context.Background()
	staff := ptr.Ptr("staff-7")
	location := ptr.Ptr("loc-2")

	f.services.On("GetByID", ctx, "svc-1").Return(testService(30), nil)
	f.hours.On("GetWithHierarchy", ctx, "owner-1", location).Return(mondayHours("09:00", "10:00"), nil)
	f.bookings.On("GetByOwnerWithFilter", ctx, dayFilter(staff)).
		Return([]*domain.Booking{bookingAt("09:30", "10:00")}, nil)

	resp, err := f.uc.Execute(ctx, &Request{
		Date:       "2025-03-10",
		ServiceID:  "svc-1",
		LocationID: ptr.Ptr("loc-2"),
		StaffID:    ptr.Ptr(" staff-7 "),
	})
	require.NoError(t, err)
	assert.Equal(t, slots("09:00"), resp.Slots)
	f.hours.AssertExpectations(t)
	f.bookings.AssertExpectations(t)
}

func TestExecute_EmptyOptionalIDsAreIgnored(t *testing.T) {
	f := newFixture(availability.DefaultSettings())
	ctx := context.Background()

	f.services.On("GetByID", ctx, "svc-1").Return(testService(30), nil)
	f.hours.On("GetWithHierarchy", ctx, "owner-1", (*string)(nil)).Return(mondayHours("09:00", "10:00"), nil)
	f.bookings.On("GetByOwnerWithFilter", ctx, dayFilter(nil)).Return(nil, nil)

	_, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "svc-1", LocationID: ptr.Ptr(""), StaffID: ptr.Ptr("  ")})
	require.NoError(t, err)
	f.bookings.AssertExpectations(t)
}

func TestExecute_Deterministic(t *testing.T) {
	f := newFixture(availability.DefaultSettings())
	ctx := context.Background()

	f.services.On("GetByID", ctx, "svc-1").Return(testService(45), nil)
	f.hours.On("GetWithHierarchy", ctx, "owner-1", (*string)(nil)).Return(mondayHours("08:00", "18:00"), nil)
	f.bookings.On("GetByOwnerWithFilter", ctx, dayFilter(nil)).
		Return([]*domain.Booking{bookingAt("11:00", "12:15"), bookingAt("15:00", "15:30")}, nil)

	req := &Request{Date: "2025-03-10", ServiceID: "svc-1"}
	first, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)
	second, err := f.uc.Execute(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
	assert.NotContains(t, first.Slots, types.TimeString("11:30"))
	assert.NotContains(t, first.Slots, types.TimeString("14:30"))
	assert.Contains(t, first.Slots, types.TimeString("12:30"))
}

func TestExecute_InvalidRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "nil request", req: nil, wantErr: ErrMissingParameters},
		{name: "no service", req: &Request{Date: "2025-03-10"}, wantErr: ErrMissingParameters},
		{name: "no date", req: &Request{ServiceID: "svc-1"}, wantErr: ErrMissingParameters},
		{name: "bad date", req: &Request{Date: "10/03/2025", ServiceID: "svc-1"}, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(availability.DefaultSettings())

			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			f.services.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture(availability.DefaultSettings())
	ctx := context.Background()

	f.services.On("GetByID", ctx, "missing").Return(nil, serviceRepo.ErrServiceNotFound)

	_, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "missing"})
	assert.ErrorIs(t, err, ErrServiceNotFound)
	f.bookings.AssertNotCalled(t, "GetByOwnerWithFilter", mock.Anything, mock.Anything)
}

func TestExecute_StoreFailuresAreInternal(t *testing.T) {
	ctx := context.Background()
	dbDown := errors.New("connection refused")

	t.Run("service lookup", func(t *testing.T) {
		f := newFixture(availability.DefaultSettings())
		f.services.On("GetByID", ctx, "svc-1").Return(nil, dbDown)

		_, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "svc-1"})
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("business hours", func(t *testing.T) {
		f := newFixture(availability.DefaultSettings())
		f.services.On("GetByID", ctx, "svc-1").Return(testService(30), nil)
		f.hours.On("GetWithHierarchy", ctx, "owner-1", (*string)(nil)).Return(nil, dbDown)

		_, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "svc-1"})
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("bookings", func(t *testing.T) {
		f := newFixture(availability.DefaultSettings())
		f.services.On("GetByID", ctx, "svc-1").Return(testService(30), nil)
		f.hours.On("GetWithHierarchy", ctx, "owner-1", (*string)(nil)).Return(nil, hoursRepo.ErrConfigNotFound)
		f.bookings.On("GetByOwnerWithFilter", ctx, dayFilter(nil)).Return(nil, dbDown)

		resp, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "svc-1"})
		assert.ErrorIs(t, err, ErrInternal)
		assert.Nil(t, resp)
	})
}

func TestExecute_ClosedDay(t *testing.T) {
	closedMonday := &domain.BusinessHoursConfig{
		OwnerID: "owner-1",
		Hours:   domain.WeekHours{Monday: &domain.DayHours{Closed: true}},
	}
	ctx := context.Background()

	t.Run("flag ignored by default", func(t *testing.T) {
		f := newFixture(availability.DefaultSettings())
		f.services.On("GetByID", ctx, "svc-1").Return(testService(30), nil)
		f.hours.On("GetWithHierarchy", ctx, "owner-1", (*string)(nil)).Return(closedMonday, nil)
		f.bookings.On("GetByOwnerWithFilter", ctx, dayFilter(nil)).Return(nil, nil)

		resp, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "svc-1"})
		require.NoError(t, err)
		assert.Len(t, resp.Slots, 16)
	})

	t.Run("flag honored", func(t *testing.T) {
		settings := availability.DefaultSettings()
		settings.HonorClosedDays = true
		f := newFixture(settings)
		f.services.On("GetByID", ctx, "svc-1").Return(testService(30), nil)
		f.hours.On("GetWithHierarchy", ctx, "owner-1", (*string)(nil)).Return(closedMonday, nil)

		resp, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "svc-1"})
		require.NoError(t, err)
		assert.NotNil(t, resp.Slots)
		assert.Empty(t, resp.Slots)
		f.bookings.AssertNotCalled(t, "GetByOwnerWithFilter", mock.Anything, mock.Anything)
	})
}

func TestExecute_ServiceLongerThanWindow(t *testing.T) {
	f := newFixture(availability.DefaultSettings())
	ctx := context.Background()

	f.services.On("GetByID", ctx, "svc-1").Return(testService(120), nil)
	f.hours.On("GetWithHierarchy", ctx, "owner-1", (*string)(nil)).Return(mondayHours("09:00", "10:00"), nil)

	resp, err := f.uc.Execute(ctx, &Request{Date: "2025-03-10", ServiceID: "svc-1"})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, []int{0}, f.recorder.observed)
	f.bookings.AssertNotCalled(t, "GetByOwnerWithFilter", mock.Anything, mock.Anything)
}
