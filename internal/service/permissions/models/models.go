package models

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

// PermissionsResponse права пользователя у владельца
type PermissionsResponse struct {
	OwnerID           string `json:"ownerId"`
	UserID            string `json:"userId"`
	IsOwner           bool   `json:"isOwner"`
	CanManageBookings bool   `json:"canManageBookings"`
	CanManageServices bool   `json:"canManageServices"`
	CanManageStaff    bool   `json:"canManageStaff"`
	CanManageSettings bool   `json:"canManageSettings"`
	CanViewReports    bool   `json:"canViewReports"`
	CanManageBilling  bool   `json:"canManageBilling"`
}

// FromDomainPermissions конвертирует domain модель в DTO
func FromDomainPermissions(ownerID, userID string, p domain.Permissions) *PermissionsResponse {
	return &PermissionsResponse{
		OwnerID:           ownerID,
		UserID:            userID,
		IsOwner:           p.IsOwner,
		CanManageBookings: p.CanManageBookings,
		CanManageServices: p.CanManageServices,
		CanManageStaff:    p.CanManageStaff,
		CanManageSettings: p.CanManageSettings,
		CanViewReports:    p.CanViewReports,
		CanManageBilling:  p.CanManageBilling,
	}
}
