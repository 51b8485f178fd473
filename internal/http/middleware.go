package http

import (
	"net/http"
	"strings"

	"tally/internal/auth"
)

// requireAuth verifies the bearer token and stashes the user ID in the
// request context. The error bodies mirror what the frontend already
// expects from the previous backend.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "No authorization header")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		userID, err := s.verifier.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

// userID pulls the authenticated user out of the context. requireAuth
// guarantees it is set on every /api route.
func userID(r *http.Request) string {
	id, _ := auth.UserID(r.Context())
	return id
}
