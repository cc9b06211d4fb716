package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/events"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/payments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/internal/service/permissions"
)

// Источники отмены для метрик
const (
	cancelSourceCustomer = "customer"
	cancelSourceStaff    = "staff"
	cancelSourcePayment  = "payment_expired"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	permissions  PermissionChecker
	webhooks     WebhookParser // nil - онлайн-оплата выключена
	publisher    EventPublisher
	recorder     CancellationRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	permissionChecker PermissionChecker,
	webhooks WebhookParser,
	publisher EventPublisher,
	recorder CancellationRecorder,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		permissions:  permissionChecker,
		webhooks:     webhooks,
		publisher:    publisher,
		recorder:     recorder,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Доступно клиенту бронирования, владельцу и сотрудникам с правом CanManageBookings
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if _, err := s.checkAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Клиент видит только свои бронирования
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%s, status=%v", req.CustomerID, req.Status)

	if req.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerBookings: user=%s requested bookings of customer=%s", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%s: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%s", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetOwnerBookings получает бронирования владельца с фильтрацией
// Доступно владельцу и сотрудникам с правом CanManageBookings
func (s *Service) GetOwnerBookings(ctx context.Context, req *models.GetOwnerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetOwnerBookings: fetching bookings for owner=%s by user=%s", req.OwnerID, req.UserID)

	if err := s.requireManager(ctx, req.OwnerID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetOwnerBookings: invalid filter for owner=%s: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByOwnerWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetOwnerBookings: repository error for owner=%s: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: GetOwnerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetOwnerBookings: fetched %d bookings for owner=%s", len(bookings), req.OwnerID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент может отменить своё бронирование, сотрудник с CanManageBookings - любое бронирование владельца
// Отменить можно только pending и confirmed
func (s *Service) Cancel(ctx context.Context, bookingID string, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%s by user=%s", bookingID, req.UserID)

	reason := strings.TrimSpace(req.Reason)
	if len(reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason is longer than %d", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	source, err := s.checkAccess(ctx, booking, req.UserID)
	if err != nil {
		s.logger.Warn("Cancel: access denied for user=%s to booking id=%s", req.UserID, bookingID)
		return nil, err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%s cannot be cancelled, status=%s", bookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	if reason == "" {
		reason = domain.CancelReasonByCustomer
		if source == cancelSourceStaff {
			reason = domain.CancelReasonByStaff
		}
	}

	if err := s.cancel(ctx, booking, reason, source); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking id=%s changed status concurrently", bookingID)
			return nil, ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: cancelled booking id=%s, reason=%s", bookingID, reason)
	return models.FromDomainBooking(booking), nil
}

// HandlePaymentWebhook проверяет подпись вебхука и применяет событие
// Неизвестные события и бронирования подтверждаются без изменений, чтобы провайдер не повторял доставку
func (s *Service) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.webhooks == nil {
		return fmt.Errorf("%w: payments are disabled", ErrInternal)
	}

	event, err := s.webhooks.ParseWebhookEvent(payload, signature)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) || errors.Is(err, payments.ErrInvalidPayload) {
			s.logger.Warn("HandlePaymentWebhook: rejected: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return fmt.Errorf("%w: HandlePaymentWebhook - parse: %v", ErrInternal, err)
	}

	return s.ApplyPaymentEvent(ctx, event)
}

// ApplyPaymentEvent переводит pending бронирование по событию оплаты
// checkout.session.completed - подтверждение, checkout.session.expired - отмена
// Повторная доставка события ничего не меняет
func (s *Service) ApplyPaymentEvent(ctx context.Context, event *payments.WebhookEvent) error {
	s.logger.Info("ApplyPaymentEvent: event=%s, type=%s, booking=%s", event.ID, event.Type, event.BookingID)

	if event.Type != payments.EventCheckoutCompleted && event.Type != payments.EventCheckoutExpired {
		return nil
	}

	if event.BookingID == "" {
		s.logger.Warn("ApplyPaymentEvent: event=%s has no booking_id in metadata", event.ID)
		return nil
	}

	booking, err := s.bookingRepo.GetByID(ctx, event.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("ApplyPaymentEvent: booking id=%s not found", event.BookingID)
			return nil
		}
		s.logger.Error("ApplyPaymentEvent: repository error for booking id=%s: %v", event.BookingID, err)
		return fmt.Errorf("%w: ApplyPaymentEvent - repository error: %v", ErrInternal, err)
	}

	if !booking.IsAwaitingPayment() {
		s.logger.Info("ApplyPaymentEvent: booking id=%s already %s, skipping", booking.ID, booking.Status)
		return nil
	}

	switch event.Type {
	case payments.EventCheckoutCompleted:
		err = s.confirm(ctx, booking)
	case payments.EventCheckoutExpired:
		err = s.cancel(ctx, booking, domain.CancelReasonPaymentExpired, cancelSourcePayment)
	}

	if err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Info("ApplyPaymentEvent: booking id=%s changed concurrently, skipping", booking.ID)
			return nil
		}
		s.logger.Error("ApplyPaymentEvent: failed to apply %s to booking id=%s: %v", event.Type, booking.ID, err)
		return fmt.Errorf("%w: ApplyPaymentEvent - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ApplyPaymentEvent: booking id=%s is now %s", booking.ID, booking.Status)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op, id string) (*domain.Booking, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	return booking, nil
}

func (s *Service) confirm(ctx context.Context, booking *domain.Booking) error {
	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.StatusPending, domain.StatusConfirmed); err != nil {
		return err
	}

	booking.Status = domain.StatusConfirmed
	booking.UpdatedAt = s.timeProvider.Now()
	s.publish(ctx, events.EventBookingConfirmed, booking)

	return nil
}

func (s *Service) cancel(ctx context.Context, booking *domain.Booking, reason, source string) error {
	if err := s.bookingRepo.Cancel(ctx, booking.ID, reason); err != nil {
		return err
	}

	now := s.timeProvider.Now()
	booking.Status = domain.StatusCancelled
	booking.CancellationReason = &reason
	booking.CancelledAt = &now
	booking.UpdatedAt = now

	s.recorder.IncBookingsCancelled(source)
	s.publish(ctx, events.EventBookingCancelled, booking)

	return nil
}

// checkAccess проверяет доступ к бронированию и возвращает, от чьего имени действует пользователь
func (s *Service) checkAccess(ctx context.Context, booking *domain.Booking, userID string) (string, error) {
	if booking.CustomerID == userID {
		return cancelSourceCustomer, nil
	}

	if err := s.requireManager(ctx, booking.OwnerID, userID); err != nil {
		return "", err
	}

	return cancelSourceStaff, nil
}

// requireManager проверяет право CanManageBookings у владельца
func (s *Service) requireManager(ctx context.Context, ownerID, userID string) error {
	err := s.permissions.Require(ctx, ownerID, userID, permissions.CanManageBookings)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, permissions.ErrAccessDenied), errors.Is(err, permissions.ErrInvalidInput):
		return ErrAccessDenied
	default:
		s.logger.Error("requireManager: failed to resolve permissions owner=%s, user=%s: %v", ownerID, userID, err)
		return fmt.Errorf("%w: requireManager - permissions: %v", ErrInternal, err)
	}
}

func (s *Service) publish(ctx context.Context, eventType events.EventType, booking *domain.Booking) {
	if err := s.publisher.Publish(ctx, events.NewBookingEvent(eventType, booking, s.timeProvider.Now())); err != nil {
		s.logger.Warn("publish: failed to publish %s for booking id=%s: %v", eventType, booking.ID, err)
	}
}
