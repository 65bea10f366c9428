package drafts

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{draft_id}", h.View)
	r.Delete("/{draft_id}", h.Remove)
	return r
}
