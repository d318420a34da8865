package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/domain/entity"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/metrics"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/repository"
)

type actorKeyType string

const actorKey actorKeyType = "authenticatedActor"

// Claims is the JWT payload issued by the identity provider.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token, resolves the user's current role from
// the store and puts an entity.Actor on the request context. The role is
// loaded per request so revocations and role changes apply immediately.
func JWTAuth(secret string, userRepo repository.UserRepository, log logger.Logger, m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.Fields(header)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondError(w, r, log, m, domain.ErrAuthRequired)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.UserID == "" {
				log.Warnf("Rejected request with invalid token: %v", err)
				respondError(w, r, log, m, domain.ErrAuthRequired)
				return
			}

			user, err := userRepo.GetByID(r.Context(), claims.UserID)
			if err != nil {
				log.Warnf("Token for unknown user %s: %v", claims.UserID, err)
				respondError(w, r, log, m, domain.ErrAuthRequired)
				return
			}
			if !user.IsActive {
				respondError(w, r, log, m, domain.ErrUnauthorized)
				return
			}

			actor := entity.Actor{ID: user.ID, Email: user.Email, Role: user.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
		})
	}
}

// actorFrom returns the authenticated actor, or a zero Actor for anonymous
// requests. Services treat an empty actor id as unauthenticated.
func actorFrom(ctx context.Context) entity.Actor {
	if actor, ok := ctx.Value(actorKey).(entity.Actor); ok {
		return actor
	}
	return entity.Actor{}
}

// Observe records per-route request latency.
func Observe(m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			next.ServeHTTP(w, r)
			m.APILatency.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
		})
	}
}
