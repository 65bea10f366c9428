package events

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{event_id}", h.View)
	r.Patch("/{event_id}", h.Update)
	r.Delete("/{event_id}", h.Remove)
	return r
}
