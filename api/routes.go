package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/justinas/alice"
)

func RegisterRoutes(h *Handler) http.Handler {
	router := mux.NewRouter()

	// Trip endpoints
	router.HandleFunc("/api/yellow-taxi-trips", h.GetTrips).Methods("GET")
	router.HandleFunc("/api/yellow-taxi-trips/filtered", h.GetFilteredTrips).Methods("GET")
	router.HandleFunc("/api/yellow-taxi-trips/store-data", h.StoreData).Methods("GET")

	router.HandleFunc("/health", h.Health).Methods("GET")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", requestIDHeader}),
	)

	return alice.New(recoverPanic, requestID, cors).Then(router)
}
