// internal/app/features/meetings/routes.go
package meetings

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeDetail)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}", h.HandleUpdate)
	r.Post("/{id}/rsvp", h.HandleRSVP)
	r.Post("/{id}/delete", h.HandleDelete)
	return r
}
