package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS wraps h so the board can be called from any origin. Preflight requests
// are answered here with 200 and never reach h.
func CORS(h http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:       []string{"*"},
		ExposedHeaders:       []string{"X-Total-Count", RequestIDHeader},
		OptionsSuccessStatus: http.StatusOK,
	})
	return c.Handler(h)
}
