package students

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/move", h.Move)
	r.Get("/{student_id}", h.View)
	r.Patch("/{student_id}", h.UpdateDetails)
	r.Patch("/{student_id}/status", h.UpdateStatus)
	return r
}
