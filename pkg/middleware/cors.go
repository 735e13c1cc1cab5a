package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORSOptions builds the cross-origin policy for the API. Credentials are
// only allowed for an explicit origin list; with "*" the browser gets a
// literal wildcard and no credentials.
func CORSOptions(allowedOrigins []string) cors.Options {
	wildcard := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")

	return cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}
}
