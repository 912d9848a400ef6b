package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
)

type contextKey string

const ContextKeyUserID = contextKey("userID")

const TokenIssuer = "Plumbtix"

// AuthMiddleware guards secured endpoints. The JWT is read from
// Authorization: Bearer and must be an RS256 access token signed by us.
func AuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractAccessToken(r)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, utils.ErrCodeUnauthenticated, err.Error())
				return
			}

			tok, vErr := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return pub, nil
			}, jwt.WithIssuer(TokenIssuer), jwt.WithExpirationRequired())
			if vErr != nil || !tok.Valid {
				if errors.Is(vErr, jwt.ErrTokenExpired) {
					utils.RespondError(w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", vErr)
					return
				}
				utils.RespondError(w, http.StatusUnauthorized, utils.ErrCodeUnauthenticated, "Invalid token", vErr)
				return
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, utils.ErrCodeUnauthenticated, "Invalid claims")
				return
			}
			sub, ok := claims["sub"].(string)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, utils.ErrCodeUnauthenticated, "Missing subject")
				return
			}
			if _, err := uuid.Parse(sub); err != nil {
				utils.RespondError(w, http.StatusUnauthorized, utils.ErrCodeUnauthenticated, "Malformed subject")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractAccessToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing Authorization header")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}

// UserIDFromContext returns the authenticated subject placed by
// AuthMiddleware.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := ctx.Value(ContextKeyUserID).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
