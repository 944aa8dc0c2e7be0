// handlers содержит HTTP-эндпоинты safebox-auth.
// Здесь выполняется только разбор/валидация входа и маппинг данных и ошибок
// доменного слоя (service) в HTTP. Вся бизнес-логика — в пакете service.
//
// Маппинг ошибок:
//   - ошибка валидации входа -> 400 (с details);
//   - service.ErrUserExists -> 409;
//   - service.ErrInvalidCredentials -> 401;
//   - service.ErrInvalidToken -> 401;
//   - service.ErrTokenNotFound -> 404;
//   - прочее -> 500 c единым безопасным сообщением; детали внутренних ошибок
//     наружу не утекают, подробности попадают только в логи.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	logctx "github.com/pribylovaa/safebox-auth/internal/pkg/log"
	"github.com/pribylovaa/safebox-auth/internal/service"
)

// Handlers агрегирует зависимости эндпоинтов.
type Handlers struct {
	service *service.Service
}

func New(s *service.Service) *Handlers {
	return &Handlers{service: s}
}

// apiResponse — единый конверт ответа:
// {success:true, data:...} либо {success:false, error:..., details?:...}.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeData — успешный конверт.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

// writeValidationError — 400 с безопасными деталями ошибки валидации.
func writeValidationError(w http.ResponseWriter, details string) {
	writeJSON(w, http.StatusBadRequest, apiResponse{
		Success: false,
		Error:   "validation error",
		Details: details,
	})
}

// writeError маппит ошибку сервисного слоя на HTTP-статус и конверт.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		writeJSON(w, http.StatusConflict, apiResponse{Success: false, Error: service.ErrUserExists.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Error: service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Error: service.ErrInvalidToken.Error()})
	case errors.Is(err, service.ErrTokenNotFound):
		writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Error: service.ErrTokenNotFound.Error()})
	default:
		logctx.From(r.Context()).Error("internal_error",
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Error: "internal server error"})
	}
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
