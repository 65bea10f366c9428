package teachers

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{teacher_id}", h.View)
	r.Patch("/{teacher_id}", h.UpdateDetails)
	r.Patch("/{teacher_id}/status", h.UpdateStatus)
	return r
}
