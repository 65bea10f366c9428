package sections

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{section_id}", h.View)
	r.Patch("/{section_id}", h.Update)
	return r
}
