package jwtmiddleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const contextKey = "user"

// RequireAuth verifies the HS256 access token issued by the auth service
// and short-circuits the request when it is missing or invalid. Token
// issuance and refresh live outside this service.
func RequireAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseToken(c, secret)
			if err != nil {
				return err
			}
			c.Set(contextKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin additionally checks the role claim.
func RequireAdmin(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseToken(c, secret)
			if err != nil {
				return err
			}
			if role, _ := claims["role"].(string); role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			c.Set(contextKey, claims)
			return next(c)
		}
	}
}

// Claims returns the verified token claims stored by the middleware.
func Claims(c echo.Context) (jwt.MapClaims, bool) {
	claims, ok := c.Get(contextKey).(jwt.MapClaims)
	return claims, ok
}

func parseToken(c echo.Context, secret []byte) (jwt.MapClaims, error) {
	raw := tokenFromRequest(c)
	if raw == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// tokenFromRequest accepts either a bearer Authorization header or the
// accessToken cookie set by the auth service.
func tokenFromRequest(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}
