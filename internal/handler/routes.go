package handler

import (
	"github.com/Dan9191/profile-service/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires the profile API routes
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recoverer(h.log), middleware.RequestLogger(h.log))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/profile", h.GetProfile).Methods("GET")
	api.HandleFunc("/profile", h.SaveProfile).Methods("POST")
	api.HandleFunc("/reference-rate", h.GetReferenceRate).Methods("GET")

	r.HandleFunc("/healthz", h.Health).Methods("GET")
	return r
}
