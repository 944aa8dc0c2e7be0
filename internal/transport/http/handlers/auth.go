package handlers

import (
	"net/http"
	"net/mail"
	"strings"
)

// Валидация здесь — граница доверия: сервисный слой получает уже
// проверенные поля и повторно их не валидирует.

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// minPasswordLen — минимальная длина пароля при регистрации.
const minPasswordLen = 6

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
// Регистр не нормализуется: email хранится как введён.
func validateEmail(raw string) (string, string) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", "email is required"
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", "email must be a valid email"
	}

	return email, ""
}

// RegisterUser — POST /auth/register.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		writeValidationError(w, "request body must be valid JSON")
		return
	}

	email, details := validateEmail(in.Email)
	if details != "" {
		writeValidationError(w, details)
		return
	}

	if len(in.Password) < minPasswordLen {
		writeValidationError(w, "password must be at least 6 characters")
		return
	}

	result, err := h.service.RegisterUser(r.Context(), email, in.Password, strings.TrimSpace(in.Name))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, result)
}

// LoginUser — POST /auth/login.
func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		writeValidationError(w, "request body must be valid JSON")
		return
	}

	email, details := validateEmail(in.Email)
	if details != "" {
		writeValidationError(w, details)
		return
	}

	if in.Password == "" {
		writeValidationError(w, "password is required")
		return
	}

	result, err := h.service.LoginUser(r.Context(), email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, result)
}

// RefreshToken — POST /auth/refresh.
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		writeValidationError(w, "request body must be valid JSON")
		return
	}

	if in.RefreshToken == "" {
		writeValidationError(w, "refreshToken is required")
		return
	}

	result, err := h.service.RefreshToken(r.Context(), in.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, http.StatusOK, result)
}

// Logout — POST /auth/logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeStrict(r, &in); err != nil {
		writeValidationError(w, "request body must be valid JSON")
		return
	}

	if in.RefreshToken == "" {
		writeValidationError(w, "refreshToken is required")
		return
	}

	if err := h.service.Logout(r.Context(), in.RefreshToken); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "successfully logged out"})
}
