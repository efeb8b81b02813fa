package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/calculate", Calculate)
		for _, op := range Operators {
			r.Post("/"+op.Name(), OperationHandler(op))
		}
	})
}
