package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"calctree/internal/handlers"
	"calctree/internal/observability"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterHandler handles POST /auth/register.
func RegisterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, ErrMissingCredentials.Error())
			return
		}

		result, err := svc.Register(req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingCredentials),
				errors.Is(err, ErrWeakPassword),
				errors.Is(err, ErrUsernameTaken):
				handlers.WriteError(w, http.StatusBadRequest, err.Error())
			default:
				observability.Logger.Error("registration failed", zap.Error(err))
				handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		handlers.WriteJSON(w, http.StatusCreated, result)
	}
}

// LoginHandler handles POST /auth/login.
func LoginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, ErrMissingCredentials.Error())
			return
		}

		result, err := svc.Login(req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingCredentials):
				handlers.WriteError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrInvalidCredentials):
				handlers.WriteError(w, http.StatusUnauthorized, err.Error())
			default:
				observability.Logger.Error("login failed", zap.Error(err))
				handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		handlers.WriteJSON(w, http.StatusOK, result)
	}
}
