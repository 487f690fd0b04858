package calculation

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"calctree/internal/auth"
	"calctree/internal/handlers"
	"calctree/internal/observability"
)

type createStartingNumberRequest struct {
	Number *float64 `json:"number"`
}

// CreateStartingNumberHandler handles POST /calculations/starting.
func CreateStartingNumberHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			handlers.WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req createStartingNumberRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Number == nil {
			handlers.WriteError(w, http.StatusBadRequest, ErrInvalidNumber.Error())
			return
		}

		sn, err := svc.CreateStartingNumber(userID, *req.Number)
		if err != nil {
			if errors.Is(err, ErrInvalidNumber) {
				handlers.WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
			observability.Logger.Error("creating starting number failed", zap.Error(err))
			handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		handlers.WriteJSON(w, http.StatusCreated, sn)
	}
}

// CreateOperationHandler handles POST /calculations/operation.
func CreateOperationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			handlers.WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req CreateOperationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, ErrInvalidRequest.Error())
			return
		}

		op, err := svc.CreateOperation(userID, req)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidRequest),
				errors.Is(err, ErrInvalidOperationType),
				errors.Is(err, ErrDivisionByZero):
				handlers.WriteError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrStartingNumberNotFound),
				errors.Is(err, ErrParentOperationNotFound):
				handlers.WriteError(w, http.StatusNotFound, err.Error())
			default:
				observability.Logger.Error("creating operation failed", zap.Error(err))
				handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		handlers.WriteJSON(w, http.StatusCreated, op)
	}
}

// TreeHandler handles GET /calculations. It is deliberately
// unauthenticated and returns every user's trees.
func TreeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trees, err := svc.Tree()
		if err != nil {
			observability.Logger.Error("fetching calculation tree failed", zap.Error(err))
			handlers.WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		handlers.WriteJSON(w, http.StatusOK, trees)
	}
}
