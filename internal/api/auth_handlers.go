package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicore/clinic-backend/internal/auth"
)

func loginHandler(mgr *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		token, sess, err := mgr.Login(r.Context(), req.Email, req.Secret)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, "invalid_credentials", "email or credential is incorrect")
			case errors.Is(err, auth.ErrAccountInactive):
				writeError(w, http.StatusForbidden, "account_inactive", err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			Token:     token,
			UserID:    sess.UserID,
			Role:      string(sess.Role),
			ExpiresAt: sess.ExpiresAt,
		})
	}
}

func logoutHandler(mgr *auth.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		if err := mgr.Logout(r.Context(), token); err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
