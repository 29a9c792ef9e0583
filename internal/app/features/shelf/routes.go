// internal/app/features/shelf/routes.go
package shelf

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeShelf)
	r.Post("/", h.HandleAdd)
	r.Post("/{id}/status", h.HandleStatus)
	r.Post("/{id}/progress", h.HandleProgress)
	r.Post("/{id}/remove", h.HandleRemove)
	return r
}
