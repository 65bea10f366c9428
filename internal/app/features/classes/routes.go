package classes

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{class_id}", h.View)
	r.Patch("/{class_id}", h.UpdateDetails)
	r.Delete("/{class_id}", h.Remove)
	return r
}
