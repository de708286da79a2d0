package dto

import "time"

// Request DTOs

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

type RegisterRequest struct {
	Email     string            `json:"email" validate:"required,email"`
	Senha     string            `json:"senha" validate:"required,min=6"`
	TutorData *TutorDataRequest `json:"tutorData" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is written at the top level of the body, not inside the data envelope.
type AuthResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	User    *UserResponse  `json:"user"`
	Tutor   *TutorResponse `json:"tutor"`
	Idoso   *IdosoResponse `json:"idoso,omitempty"`
	Tokens  *TokenResponse `json:"tokens,omitempty"`
}
