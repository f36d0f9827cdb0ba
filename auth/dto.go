package auth

import "github.com/user/ems-go/users"

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"admin@example.com"`
	Password string `json:"password" validate:"required" example:"strongpassword123"`
}

// LoginResponse is returned on successful login. The client keeps `token` and sends it
// back as `Authorization: Bearer <token>`; `user` lets it route by role.
type LoginResponse struct {
	Success bool        `json:"success" example:"true"`
	Token   string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User    *users.User `json:"user"`
}

// VerifyResponse echoes the identity resolved from the bearer token.
type VerifyResponse struct {
	Success bool        `json:"success" example:"true"`
	User    *users.User `json:"user"`
}
