package business_hours

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	hoursRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/business_hours"
	"github.com/m04kA/SMC-SalonBooking/internal/service/business_hours/models"
	"github.com/m04kA/SMC-SalonBooking/internal/service/permissions"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Service сервис для работы с часами работы
type Service struct {
	hoursRepo    BusinessHoursRepository
	permissions  PermissionChecker
	txManager    TransactionManager
	defaultOpen  types.TimeString
	defaultClose types.TimeString
	logger       Logger
}

// NewService создает новый экземпляр сервиса часов работы
func NewService(
	hoursRepo BusinessHoursRepository,
	permissionChecker PermissionChecker,
	txManager TransactionManager,
	defaultOpen, defaultClose types.TimeString,
	logger Logger,
) *Service {
	return &Service{
		hoursRepo:    hoursRepo,
		permissions:  permissionChecker,
		txManager:    txManager,
		defaultOpen:  defaultOpen,
		defaultClose: defaultClose,
		logger:       logger,
	}
}

// Get получает расписание с учетом иерархии (филиал, затем владелец)
// Публичный метод. Если ничего не сохранено, возвращает неделю по умолчанию
func (s *Service) Get(ctx context.Context, ownerID string, locationID *string) (*models.BusinessHoursResponse, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: ownerID is required", ErrInvalidInput)
	}

	config, err := s.hoursRepo.GetWithHierarchy(ctx, ownerID, locationID)
	if err != nil {
		if errors.Is(err, hoursRepo.ErrConfigNotFound) {
			s.logger.Info("Get: no business hours for owner=%s, using defaults", ownerID)
			return &models.BusinessHoursResponse{
				OwnerID:    ownerID,
				LocationID: locationID,
				Hours:      domain.DefaultWeekHours(s.defaultOpen, s.defaultClose),
				IsDefault:  true,
			}, nil
		}
		s.logger.Error("Get: repository error for owner=%s: %v", ownerID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(config), nil
}

// Update заменяет расписание уровня (ownerID, locationID)
// Доступно владельцу и сотрудникам с правом CanManageSettings
func (s *Service) Update(ctx context.Context, req *models.UpdateBusinessHoursRequest) (*models.BusinessHoursResponse, error) {
	s.logger.Info("Update: business hours for owner=%s, location=%v by user=%s", req.OwnerID, req.LocationID, req.UserID)

	// 1. Проверяем права доступа
	if err := s.permissions.Require(ctx, req.OwnerID, req.UserID, permissions.CanManageSettings); err != nil {
		if errors.Is(err, permissions.ErrAccessDenied) {
			return nil, ErrAccessDenied
		}
		if errors.Is(err, permissions.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: Update - permissions: %v", ErrInternal, err)
	}

	// 2. Валидируем расписание
	if err := validateWeek(&req.Hours); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 3. UPDATE + INSERT в одной транзакции
	var saved *domain.BusinessHoursConfig
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.hoursRepo.Upsert(txCtx, req.ToDomainConfig())
		return err
	})
	if err != nil {
		s.logger.Error("Update: repository error for owner=%s: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: saved business hours id=%d for owner=%s", saved.ID, req.OwnerID)
	return models.FromDomainConfig(saved), nil
}

// validateWeek проверяет каждый настроенный день
// Закрытый день может не иметь часов, у открытого open < close
func validateWeek(week *domain.WeekHours) error {
	for _, weekday := range domain.Weekdays {
		day := week.Day(weekday)
		if day == nil {
			continue
		}
		if err := validateDay(day); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidHours, weekday, err)
		}
	}
	return nil
}

func validateDay(day *domain.DayHours) error {
	if day.Open != nil {
		if err := day.Open.Validate(); err != nil {
			return fmt.Errorf("open: %v", err)
		}
	}
	if day.Close != nil {
		if err := day.Close.Validate(); err != nil {
			return fmt.Errorf("close: %v", err)
		}
	}

	if day.Closed || day.Open == nil || day.Close == nil {
		return nil
	}

	if !day.Open.IsBefore(*day.Close) {
		return fmt.Errorf("open %s must be before close %s", *day.Open, *day.Close)
	}

	return nil
}
