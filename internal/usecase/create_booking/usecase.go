package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
	hoursRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/business_hours"
	serviceRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/service"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/payments"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	hoursRepo    BusinessHoursRepository
	payments     PaymentsClient // nil - онлайн-оплата выключена
	publisher    EventPublisher
	txManager    TransactionManager
	settings     availability.Settings
	recorder     BookingsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	hoursRepo BusinessHoursRepository,
	paymentsClient PaymentsClient,
	publisher EventPublisher,
	txManager TransactionManager,
	settings availability.Settings,
	recorder BookingsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		hoursRepo:    hoursRepo,
		payments:     paymentsClient,
		publisher:    publisher,
		txManager:    txManager,
		settings:     settings,
		recorder:     recorder,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка слота и вставка идут в одной сериализуемой транзакции,
// поэтому два параллельных запроса на один слот не могут оба пройти
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	date, err := uc.settings.ParseDate(req.Date)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, ErrInvalidDate
	}

	start, err := parseStartTime(req.StartTime)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: customer=%s, service=%s, date=%s, time=%s",
		req.CustomerID, req.ServiceID, date.Format(domain.DateFormat), start)

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	startAt, err := start.OnDate(date, uc.settings.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if startAt.Before(now) {
		uc.logger.Warn("CreateBooking: %s %s is in the past", date.Format(domain.DateFormat), start)
		return nil, ErrBookingInPast
	}

	// 3. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	endAt := startAt.Add(time.Duration(service.DurationMinutes) * time.Minute)
	awaitingPayment := uc.payments != nil && service.IsPaid()

	var created *domain.Booking

	// 4. Выполняем проверку слота и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Рабочие часы на дату
		week, err := uc.loadWeekHours(txCtx, service.OwnerID, req.LocationID)
		if err != nil {
			return err
		}
		hours := uc.settings.ResolveHours(week, date)

		if uc.settings.IsClosed(hours) {
			uc.logger.Warn("CreateBooking: owner=%s is closed on %s", service.OwnerID, date.Format(domain.DateFormat))
			return ErrClosed
		}

		// 4.2. Слот должен совпадать с одним из выдаваемых слотов
		if err := validateSlot(start, hours, service.DurationMinutes, uc.settings.StrideMinutes); err != nil {
			uc.logger.Warn("CreateBooking: %v", err)
			return err
		}

		// 4.3. Получаем бронирования дня с блокировкой (FOR UPDATE)
		from, to := uc.settings.DayBounds(date)
		bookings, err := uc.bookingRepo.GetByOwnerWithFilter(txCtx, domain.OwnerBookingsFilter{
			OwnerID:   service.OwnerID,
			StaffID:   req.StaffID,
			From:      &from,
			To:        &to,
			ForUpdate: true,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 4.4. Проверяем пересечения
		if conflict := findConflict(startAt, endAt, bookings); conflict != nil {
			uc.logger.Warn("CreateBooking: slot %s overlaps booking id=%s", start, conflict.ID)
			return ErrSlotNotAvailable
		}

		// 4.5. Создаем бронирование, цена фиксируется из услуги
		status := domain.StatusConfirmed
		if awaitingPayment {
			status = domain.StatusPending
		}

		booking := &domain.Booking{
			ID:            uuid.NewString(),
			OwnerID:       service.OwnerID,
			ServiceID:     service.ID,
			StaffID:       req.StaffID,
			LocationID:    req.LocationID,
			CustomerID:    req.CustomerID,
			CustomerName:  req.CustomerName,
			CustomerEmail: req.CustomerEmail,
			StartTime:     startAt,
			EndTime:       endAt,
			Status:        status,
			PriceAmount:   service.PriceAmount,
			Currency:      strings.ToLower(service.Currency),
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: insert rejected by constraint: %v", err)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("CreateBooking: serialization conflict for slot %s: %v", start, err)
			return nil, ErrSlotNotAvailable
		}
		if isKnownError(err) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created booking id=%s, status=%s", created.ID, created.Status)

	response := &Response{Booking: created}

	// 5. Бронирование ждёт оплаты: открываем checkout-сессию
	if created.IsAwaitingPayment() {
		session, err := uc.openCheckout(ctx, created, service)
		if err != nil {
			return nil, err
		}
		response.CheckoutURL = &session.URL
	}

	uc.recorder.IncBookingsCreated(string(created.Status))
	uc.publish(ctx, events.EventBookingCreated, created)

	return response, nil
}

// openCheckout открывает сессию оплаты и сохраняет её ID
// При отказе провайдера бронирование отменяется, чтобы не держать слот
func (uc *UseCase) openCheckout(ctx context.Context, booking *domain.Booking, service *domain.Service) (*payments.CheckoutSession, error) {
	session, err := uc.payments.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		BookingID:     booking.ID,
		OwnerID:       booking.OwnerID,
		ServiceName:   service.Name,
		Amount:        booking.PriceAmount,
		Currency:      booking.Currency,
		CustomerEmail: booking.CustomerEmail,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: checkout for booking id=%s failed: %v", booking.ID, err)

		if cancelErr := uc.bookingRepo.Cancel(ctx, booking.ID, domain.CancelReasonCheckoutFailed); cancelErr != nil {
			uc.logger.Error("CreateBooking: failed to release booking id=%s: %v", booking.ID, cancelErr)
		}
		uc.recorder.IncBookingsCancelled(domain.CancelReasonCheckoutFailed)

		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	// Сессия уже открыта, вебхук найдёт бронирование по metadata даже без сохранённого ID
	if err := uc.bookingRepo.SetCheckoutSession(ctx, booking.ID, session.ID); err != nil {
		uc.logger.Error("CreateBooking: failed to save checkout session for booking id=%s: %v", booking.ID, err)
	}
	booking.CheckoutSessionID = &session.ID

	return session, nil
}

// loadWeekHours возвращает недельное расписание или nil, если оно не настроено
func (uc *UseCase) loadWeekHours(ctx context.Context, ownerID string, locationID *string) (*domain.WeekHours, error) {
	config, err := uc.hoursRepo.GetWithHierarchy(ctx, ownerID, locationID)
	switch {
	case err == nil:
		return &config.Hours, nil
	case errors.Is(err, hoursRepo.ErrConfigNotFound):
		return nil, nil
	case errors.Is(err, hoursRepo.ErrDecodeHours):
		uc.logger.Warn("CreateBooking: broken business hours for owner=%s, using defaults: %v", ownerID, err)
		return nil, nil
	default:
		uc.logger.Error("CreateBooking: failed to get business hours for owner=%s: %v", ownerID, err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}
}

func (uc *UseCase) publish(ctx context.Context, eventType events.EventType, booking *domain.Booking) {
	if err := uc.publisher.Publish(ctx, events.NewBookingEvent(eventType, booking, uc.timeProvider.Now())); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish %s for booking id=%s: %v", eventType, booking.ID, err)
	}
}

func isKnownError(err error) bool {
	for _, known := range []error{ErrClosed, ErrInvalidTimeSlot, ErrSlotNotAvailable, ErrInternal} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
