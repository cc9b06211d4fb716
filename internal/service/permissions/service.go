package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	teamRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/team"
	"github.com/m04kA/SMC-SalonBooking/internal/service/permissions/models"
)

// Service разрешает права пользователя в рамках владельца
type Service struct {
	teamRepo TeamRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса прав
func NewService(teamRepo TeamRepository, logger Logger) *Service {
	return &Service{
		teamRepo: teamRepo,
		logger:   logger,
	}
}

// Resolve возвращает права пользователя у владельца
// Владелец получает все права, активный сотрудник - сохранённые, остальные - ErrAccessDenied
func (s *Service) Resolve(ctx context.Context, ownerID, userID string) (domain.Permissions, error) {
	if ownerID == "" || userID == "" {
		return domain.Permissions{}, fmt.Errorf("%w: ownerID and userID are required", ErrInvalidInput)
	}

	if ownerID == userID {
		return domain.OwnerPermissions(), nil
	}

	member, err := s.teamRepo.GetMember(ctx, ownerID, userID)
	if err != nil {
		if errors.Is(err, teamRepo.ErrMemberNotFound) {
			s.logger.Warn("Resolve: user=%s is not a member of owner=%s", userID, ownerID)
			return domain.Permissions{}, ErrAccessDenied
		}
		s.logger.Error("Resolve: repository error for owner=%s, user=%s: %v", ownerID, userID, err)
		return domain.Permissions{}, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	perms := member.Permissions
	perms.IsOwner = false

	return perms, nil
}

// Require проверяет, что у пользователя есть нужное право
func (s *Service) Require(ctx context.Context, ownerID, userID string, allowed func(domain.Permissions) bool) error {
	perms, err := s.Resolve(ctx, ownerID, userID)
	if err != nil {
		return err
	}

	if !allowed(perms) {
		s.logger.Warn("Require: user=%s lacks permission at owner=%s", userID, ownerID)
		return ErrAccessDenied
	}

	return nil
}

// GetUserPermissions возвращает права пользователя для API
func (s *Service) GetUserPermissions(ctx context.Context, ownerID, userID string) (*models.PermissionsResponse, error) {
	s.logger.Info("GetUserPermissions: owner=%s, user=%s", ownerID, userID)

	perms, err := s.Resolve(ctx, ownerID, userID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainPermissions(ownerID, userID, perms), nil
}

// CanManageBookings проверка права на управление бронированиями
func CanManageBookings(p domain.Permissions) bool { return p.CanManageBookings }

// CanManageSettings проверка права на изменение настроек
func CanManageSettings(p domain.Permissions) bool { return p.CanManageSettings }
