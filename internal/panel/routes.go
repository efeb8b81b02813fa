package panel

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the keypad endpoints under /keypad.
func (p *Panel) RegisterRoutes(r chi.Router) {
	r.Route("/keypad", func(r chi.Router) {
		r.Get("/state", p.State)
		r.Get("/events", p.Events)
		r.Post("/digit/{digit}", p.Digit)
		r.Post("/operator/{op}", p.Operator)
		r.Post("/equals", p.Equals)
		r.Post("/clear", p.Clear)
	})
}
