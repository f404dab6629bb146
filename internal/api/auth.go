package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/l1jgo/gameserver/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// AppTokenParam is the query parameter carrying the application token.
const AppTokenParam = "app-token"

const unauthorizedMessage = "Unauthorized: Invalid or missing application token"

// Auth checks the application token of API requests against either a bcrypt
// hash or a plain token.
type Auth struct {
	token []byte
	hash  []byte
}

func NewAuth(cfg config.AuthConfig) (*Auth, error) {
	if cfg.AppTokenHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.AppTokenHash)); err != nil {
			return nil, fmt.Errorf("app token hash: %w", err)
		}
		return &Auth{hash: []byte(cfg.AppTokenHash)}, nil
	}
	if cfg.AppToken == "" {
		return nil, errors.New("no app token configured")
	}
	return &Auth{token: []byte(cfg.AppToken)}, nil
}

// HashToken returns the bcrypt hash to put in auth.app_token_hash.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Valid reports whether provided is the application token. Empty never is.
func (a *Auth) Valid(provided string) bool {
	if provided == "" {
		return false
	}
	if a.hash != nil {
		return bcrypt.CompareHashAndPassword(a.hash, []byte(provided)) == nil
	}
	return subtle.ConstantTimeCompare(a.token, []byte(provided)) == 1
}

// Middleware rejects requests without a valid app-token query parameter.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Valid(r.URL.Query().Get(AppTokenParam)) {
			writeError(w, http.StatusUnauthorized, unauthorizedMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}
