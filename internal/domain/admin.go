package domain

import "time"

// AdminRole enumerates dashboard operator roles.
type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "ADMIN"
	AdminRoleSupervisor AdminRole = "SUPERVISOR"
)

// Admin models an operator who works the complaint queue.
type Admin struct {
	ID           string
	WorkID       string
	Name         string
	PasswordHash string
	Role         AdminRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
