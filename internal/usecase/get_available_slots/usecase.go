package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	hoursRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/business_hours"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo BookingRepository
	serviceRepo ServiceRepository
	hoursRepo   BusinessHoursRepository
	settings    availability.Settings
	recorder    SlotsRecorder
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	hoursRepo BusinessHoursRepository,
	settings availability.Settings,
	recorder SlotsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		hoursRepo:   hoursRepo,
		settings:    settings,
		recorder:    recorder,
		logger:      logger,
	}
}

// Execute выполняет use case получения доступных слотов
// Операция только читает данные, частичных результатов не бывает
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}
	locationID := normalizeOptional(req.LocationID)
	staffID := normalizeOptional(req.StaffID)

	date, err := uc.settings.ParseDate(req.Date)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return nil, ErrInvalidDate
	}

	uc.logger.Info("GetAvailableSlots: service=%s, date=%s", req.ServiceID, date.Format(domain.DateFormat))

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Определяем рабочее окно на дату
	week, err := uc.loadWeekHours(ctx, service.OwnerID, locationID)
	if err != nil {
		return nil, err
	}
	hours := uc.settings.ResolveHours(week, date)

	response := &Response{
		Date:      date,
		OwnerID:   service.OwnerID,
		ServiceID: service.ID,
		Open:      hours.Open,
		Close:     hours.Close,
		Slots:     []types.TimeString{},
	}

	if uc.settings.IsClosed(hours) {
		uc.logger.Info("GetAvailableSlots: owner=%s is closed on %s", service.OwnerID, date.Format(domain.DateFormat))
		uc.recorder.ObserveAvailableSlots(0)
		return response, nil
	}

	// 4. Генерируем кандидатов и отбрасываем те, что не успевают до закрытия
	candidates := availability.GenerateSlots(hours.Open, hours.Close, uc.settings.StrideMinutes)
	candidates = availability.FitWithin(candidates, service.DurationMinutes, hours.Close)
	if len(candidates) == 0 {
		uc.recorder.ObserveAvailableSlots(0)
		return response, nil
	}

	// 5. Получаем неотменённые бронирования владельца на эту дату
	from, to := uc.settings.DayBounds(date)
	bookings, err := uc.bookingRepo.GetByOwnerWithFilter(ctx, domain.OwnerBookingsFilter{
		OwnerID: service.OwnerID,
		StaffID: staffID,
		From:    &from,
		To:      &to,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 6. Убираем пересечения
	response.Slots = uc.settings.FilterConflicts(date, candidates, service.DurationMinutes, bookings)

	uc.logger.Info("GetAvailableSlots: %d of %d slots free for owner=%s, service=%s, date=%s",
		len(response.Slots), len(candidates), service.OwnerID, service.ID, date.Format(domain.DateFormat))
	uc.recorder.ObserveAvailableSlots(len(response.Slots))

	return response, nil
}

// loadWeekHours возвращает недельное расписание или nil, если оно не настроено
// Повреждённая конфигурация не ломает расчёт: используется окно по умолчанию
func (uc *UseCase) loadWeekHours(ctx context.Context, ownerID string, locationID *string) (*domain.WeekHours, error) {
	config, err := uc.hoursRepo.GetWithHierarchy(ctx, ownerID, locationID)
	switch {
	case err == nil:
		return &config.Hours, nil
	case errors.Is(err, hoursRepo.ErrConfigNotFound):
		return nil, nil
	case errors.Is(err, hoursRepo.ErrDecodeHours):
		uc.logger.Warn("GetAvailableSlots: broken business hours for owner=%s, using defaults: %v", ownerID, err)
		return nil, nil
	default:
		uc.logger.Error("GetAvailableSlots: failed to get business hours for owner=%s: %v", ownerID, err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}
}
