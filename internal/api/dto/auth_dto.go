package dto

import "time"

// AdminLoginRequest payload for admin login.
type AdminLoginRequest struct {
	WorkID   string `json:"work_id"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminResponse describes the signed-in operator.
type AdminResponse struct {
	ID     string `json:"id"`
	WorkID string `json:"work_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}
