package domain

import "time"

// Permissions набор возможностей пользователя в рамках одного владельца
type Permissions struct {
	IsOwner           bool
	CanManageBookings bool
	CanManageServices bool
	CanManageStaff    bool
	CanManageSettings bool
	CanViewReports    bool
	CanManageBilling  bool
}

// OwnerPermissions владелец может всё
func OwnerPermissions() Permissions {
	return Permissions{
		IsOwner:           true,
		CanManageBookings: true,
		CanManageServices: true,
		CanManageStaff:    true,
		CanManageSettings: true,
		CanViewReports:    true,
		CanManageBilling:  true,
	}
}

// TeamMember сотрудник владельца с сохранёнными правами
type TeamMember struct {
	ID          string
	OwnerID     string
	UserID      string
	Role        string
	Permissions Permissions // IsOwner всегда false
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
