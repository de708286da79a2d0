package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/usecase"
	"tutor-portal/pkg/response"
	"tutor-portal/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// Register handles tutor sign up
// @Summary Register a new tutor
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeAndValidate(w, r, h.validator, &req, "") {
		return
	}

	resp, err := h.authUsecase.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			response.Conflict(w, "Este email já está cadastrado")
		case errors.Is(err, usecase.ErrTooManyContacts):
			response.BadRequest(w, "Número máximo de contatos de emergência excedido")
		default:
			response.InternalServerError(w, "Erro ao criar conta")
		}
		return
	}

	response.JSON(w, http.StatusCreated, resp)
}

// Login handles tutor login
// @Summary Login tutor
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req, "Email e senha são obrigatórios") {
		return
	}

	resp, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			response.Unauthorized(w, "Email ou senha inválidos")
		case errors.Is(err, usecase.ErrTooManyAttempts):
			response.TooManyRequests(w, "")
		default:
			response.InternalServerError(w, "Erro ao fazer login")
		}
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Logout revokes the current access token and, when sent, the refresh token
// @Summary Logout tutor
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// The body is optional
	var req dto.LogoutRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.authUsecase.Logout(r.Context(), &req); err != nil {
		if writeAccessError(w, err) {
			return
		}
		response.InternalServerError(w, "Erro ao sair")
		return
	}

	response.Success(w, http.StatusOK, "Sessão encerrada", nil)
}

// RefreshToken rotates the token pair
// @Summary Refresh access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !decodeAndValidate(w, r, h.validator, &req, "") {
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrTokenRevoked):
			response.Unauthorized(w, "Sessão expirada, faça login novamente")
		default:
			response.InternalServerError(w, "Erro ao renovar sessão")
		}
		return
	}

	response.Success(w, http.StatusOK, "Sessão renovada", tokens)
}

// GetCurrentUser rehydrates the session
// @Summary Get current tutor
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	resp, err := h.authUsecase.GetCurrentUser(r.Context())
	if err != nil {
		switch {
		case writeAccessError(w, err):
		case errors.Is(err, usecase.ErrUserNotFound):
			response.NotFound(w, "Usuário não encontrado")
		default:
			response.InternalServerError(w, "Erro ao carregar sessão")
		}
		return
	}

	response.JSON(w, http.StatusOK, resp)
}
