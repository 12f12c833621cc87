package domain

import "time"

// Token represents issued access token metadata.
type Token struct {
	ID        string
	AdminID   string
	WorkID    string
	Role      AdminRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
