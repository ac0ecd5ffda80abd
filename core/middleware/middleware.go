package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"studio-api/core/config"
	"studio-api/core/constants"
	"studio-api/core/controller"
	"studio-api/core/errors"
	"studio-api/core/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware validates the Bearer token on private routes and stores the
// claims on the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrInvalidTokenFormat, "invalid authorization header format")
			}

			claims, err := parseToken(parts[1])
			if err != nil {
				code := errors.ErrUnauthorized
				// jwt/v5 joins parse errors, a direct comparison never matches.
				if stderrors.Is(err, jwt.ErrTokenExpired) {
					code = errors.ErrTokenExpired
				}
				return controller.NewErrorResponse(http.StatusUnauthorized, code, "invalid token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

func parseToken(raw string) (*TokenClaims, error) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "config not initialized", nil)
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// AdminKeyMiddleware gates privileged operations (the retention cleanup) on a
// key presented in X-Admin-Key, verified against the configured bcrypt hash.
func (m *Middleware) AdminKeyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cfg, ok := config.GetSafe()
			if !ok || cfg.Cleanup.AdminKeyHash == "" {
				logger.Error("Middleware:AdminKey:NotConfigured")
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "cleanup is not enabled")
			}

			key := c.Request().Header.Get("X-Admin-Key")
			if key == "" {
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "admin key required")
			}

			if err := bcrypt.CompareHashAndPassword([]byte(cfg.Cleanup.AdminKeyHash), []byte(key)); err != nil {
				logger.Warn("Middleware:AdminKey:Rejected", "remote", c.RealIP())
				return controller.NewErrorResponse(http.StatusForbidden, errors.ErrForbidden, "invalid admin key")
			}

			return next(c)
		}
	}
}
