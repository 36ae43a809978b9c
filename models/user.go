package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
	RoleSupport  UserRole = "support"
	RoleUser     UserRole = "user"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       UserRole   `json:"role"`
	Status     UserStatus `json:"status"`
	IsVerified bool       `json:"isVerified"`
	CreatedAt  time.Time  `json:"createdAt"`
	Avatar     string     `json:"avatar,omitempty"`
}

type UserPatch struct {
	Name       *string     `json:"name"`
	Role       *UserRole   `json:"role" binding:"omitempty,oneof=admin customer support user"`
	Status     *UserStatus `json:"status" binding:"omitempty,oneof=active inactive suspended"`
	IsVerified *bool       `json:"isVerified"`
	Avatar     *string     `json:"avatar"`
}

func (p UserPatch) Apply(user *User) {
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Role != nil {
		user.Role = *p.Role
	}
	if p.Status != nil {
		user.Status = *p.Status
	}
	if p.IsVerified != nil {
		user.IsVerified = *p.IsVerified
	}
	if p.Avatar != nil {
		user.Avatar = *p.Avatar
	}
}

type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Pages int    `json:"pages"`
}

// Admin is the identity behind an authenticated dashboard session.
type Admin struct {
	Email string   `json:"email"`
	Name  string   `json:"name,omitempty"`
	Role  UserRole `json:"role"`
}
