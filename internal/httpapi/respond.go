package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Freeeeeet/slot_swapper/internal/auth"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/Freeeeeet/slot_swapper/internal/swap"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type errorBody struct {
	Message   string `json:"message"`
	Code      string `json:"code"`
	Retriable bool   `json:"retriable"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError переводит ошибку сервиса в HTTP статус и тело {message, code, retriable}
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := classify(err)

	if status == http.StatusInternalServerError {
		s.logger.Error("HTTP handler failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	} else {
		s.logger.Debug("HTTP request refused",
			zap.String("path", r.URL.Path),
			zap.String("code", code),
			zap.Error(err),
		)
	}

	writeJSON(w, status, errorBody{
		Message:   message,
		Code:      code,
		Retriable: swap.Retriable(err),
	})
}

func classify(err error) (status int, code, message string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, "validation_error", validationMessage(verrs)
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "Not authorized, token failed."
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "Invalid email or password."
	}

	code = swap.Kind(err)
	switch code {
	case "validation_error", "invalid_state", "self_swap", "already_resolved":
		return http.StatusBadRequest, code, err.Error()
	case "forbidden":
		return http.StatusForbidden, code, err.Error()
	case "not_found":
		return http.StatusNotFound, code, err.Error()
	case "stale_state", "conflict":
		return http.StatusConflict, code, err.Error()
	default:
		return http.StatusInternalServerError, "internal", "Server error."
	}
}

func validationMessage(verrs validator.ValidationErrors) string {
	if len(verrs) == 0 {
		return "Invalid request."
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field %s is required.", fe.Field())
	case "email":
		return fmt.Sprintf("Field %s must be a valid email.", fe.Field())
	case "min":
		return fmt.Sprintf("Field %s must be at least %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Field %s is invalid.", fe.Field())
	}
}

// decode читает JSON тело и прогоняет валидацию тегов
func (s *Server) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", swap.ErrValidation)
	}
	return s.validate.Struct(dst)
}

func pathInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", swap.ErrValidation, name)
	}
	return id, nil
}
