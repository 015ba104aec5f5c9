package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"bookshelf/internal/apperr"
)

// Middleware gates protected routes behind a valid bearer token. A missing
// Authorization header is rejected before the token service is consulted;
// a failed verification is rejected with the same unauthenticated contract.
// On success the verified claims are attached to the request context.
func Middleware(tokens *JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return tokens.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperr.ErrorResponse{
				Error: "not authenticated",
				Code:  string(apperr.KindUnauthenticated),
			})
		},
	})
}

// ClaimsFromContext returns the claims attached by Middleware, or false
// when the request was not authenticated.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get("user").(*Claims)
	return claims, ok
}
