package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the HTTP surface. Health, metrics and the password-reset
// flow are public; everything else sits behind the auth middleware. Admin
// authorization happens in the handlers and services, not in routing.
func NewRouter(s *Server, m *Metrics, auth func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/auth/password-reset", func(r chi.Router) {
		r.Post("/", s.handleResetRequest)
		r.Post("/verify", s.handleResetVerify)
		r.Post("/confirm", s.handleResetConfirm)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/members", s.handleDirectoryList)
		r.Get("/members/{memberId}", s.handleMemberDetail)

		r.Get("/me", s.handleGetProfile)
		r.Patch("/me", s.handlePatchProfile)

		r.Get("/requests", s.handleListMyRequests)
		r.Post("/requests", s.handleCreateRequest)

		r.Get("/settings/kvkk", s.handleGetKVKKText)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/members", s.handleAdminListMembers)
			r.Post("/members", s.handleAdminCreateMember)
			r.Get("/members/{memberId}", s.handleAdminGetMember)
			r.Put("/members/{memberId}", s.handleAdminUpdateMember)
			r.Delete("/members/{memberId}", s.handleAdminDeleteMember)
			r.Post("/members/{memberId}/request-update", s.handleAdminRequestUpdate)

			r.Get("/stats", s.handleAdminStats)

			r.Get("/requests", s.handleAdminListRequests)
			r.Post("/requests/{requestId}/reply", s.handleAdminReplyRequest)
			r.Delete("/requests/{requestId}", s.handleAdminDeleteRequest)

			r.Put("/settings/kvkk", s.handleUpdateKVKKText)
		})
	})

	return r
}
