package schedules

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/week", h.Week)
	r.Get("/{schedule_id}", h.View)
	r.Patch("/{schedule_id}", h.Update)
	r.Delete("/{schedule_id}", h.Remove)
	return r
}
