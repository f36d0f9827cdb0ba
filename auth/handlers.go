package auth

import (
	"net/http"

	"github.com/user/ems-go/apperror"
	"github.com/user/ems-go/users"
	"github.com/user/ems-go/validation"
)

var loginMessages = validation.Messages{
	"email.required":    "Email is required",
	"email.email":       "Email is invalid",
	"password.required": "Password is required",
}

// Handlers wraps the user service and the token service to provide HTTP handlers.
type Handlers struct {
	users  *users.Service
	tokens *TokenService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(userService *users.Service, tokens *TokenService) *Handlers {
	return &Handlers{users: userService, tokens: tokens}
}

// HandleLogin godoc
// @Summary User Login
// @Description Checks email and password and returns a bearer token with the user's public profile.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.LoginResponse "Login successful"
// @Failure 400 {object} apperror.ErrorResponse "Bad Request - Invalid input or missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Invalid credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /api/auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, r, err)
			return
		}
		if err := validation.Struct(req, loginMessages); err != nil {
			WriteError(w, r, err)
			return
		}

		user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		token, _, err := h.tokens.Issue(user.ID)
		if err != nil {
			WriteError(w, r, apperror.NewInternalError("failed to issue token", err))
			return
		}

		WriteJSON(w, http.StatusOK, LoginResponse{Success: true, Token: token, User: user})
	}
}

// HandleVerify godoc
// @Summary Verify token
// @Description Returns the user the bearer token belongs to. Clients call it on startup to restore a session.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.VerifyResponse
// @Failure 401 {object} apperror.ErrorResponse "Unauthorized - Missing or invalid token"
// @Failure 404 {object} apperror.ErrorResponse "Not Found - Token refers to a deleted user"
// @Router /api/auth/verify [get]
func (h *Handlers) HandleVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			WriteError(w, r, apperror.NewUnauthorizedError("Token not provided", nil))
			return
		}
		WriteJSON(w, http.StatusOK, VerifyResponse{Success: true, User: user})
	}
}
