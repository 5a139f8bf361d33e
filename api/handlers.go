package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"yellow-taxi-trips/filter"
	"yellow-taxi-trips/ingest"
	"yellow-taxi-trips/models"
	"yellow-taxi-trips/pagination"
	"yellow-taxi-trips/trips"
)

// TripReader serves the paged trip listings.
type TripReader interface {
	GetTrips(ctx context.Context, p pagination.Params) (*trips.Page, error)
	GetFilteredTrips(ctx context.Context, req filter.Request, p pagination.Params) (*trips.Page, error)
}

// Ingester runs one fetch-and-store pass.
type Ingester interface {
	Run(ctx context.Context) (ingest.Result, error)
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler holds the dependencies of the trip endpoints.
type Handler struct {
	trips    TripReader
	ingester Ingester
	db       Pinger
}

func NewHandler(trips TripReader, ingester Ingester, db Pinger) *Handler {
	return &Handler{trips: trips, ingester: ingester, db: db}
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Errors string `json:"errors"`
}

type tripsResponse struct {
	Data       []models.Trip     `json:"data"`
	Paging     pagination.Paging `json:"paging"`
	StatusCode int               `json:"statusCode"`
	Timestamp  string            `json:"timestamp"`
}

// StoreData handles GET /api/yellow-taxi-trips/store-data
func (h *Handler) StoreData(w http.ResponseWriter, r *http.Request) {
	log.Println("Starting data storage process")

	// Ingestion keeps going if the client disconnects.
	res, err := h.ingester.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		log.Printf("Error during data storage after %d records: %v", res.Processed, err)
		writeError(w, http.StatusInternalServerError, "Failed to store taxi data")
		return
	}

	log.Printf("Data stored successfully (%d records)", res.Processed)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Stored data successfully"})
}

// GetTrips handles GET /api/yellow-taxi-trips
func (h *Handler) GetTrips(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.Parse(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.trips.GetTrips(r.Context(), p)
	switch {
	case errors.Is(err, trips.ErrNotFound):
		writeError(w, http.StatusNotFound, "No trips found")
		return
	case err != nil:
		log.Printf("Error retrieving trips from the database: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve trips")
		return
	}

	log.Printf("Fetched trips successfully: count=%d", len(page.Data))
	writeTrips(w, page)
}

// GetFilteredTrips handles GET /api/yellow-taxi-trips/filtered
func (h *Handler) GetFilteredTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p, err := pagination.Parse(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := filter.ParseQuery(q, "page", "limit")
	if err != nil {
		log.Printf("Bad request during filtered trips retrieval: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.trips.GetFilteredTrips(r.Context(), req, p)
	var filterErr *filter.Error
	switch {
	case errors.As(err, &filterErr):
		log.Printf("Bad request during filtered trips retrieval: %v", err)
		writeError(w, http.StatusBadRequest, filterErr.Error())
		return
	case errors.Is(err, trips.ErrNotFound):
		log.Printf("No trips found for filters %s", r.URL.RawQuery)
		writeError(w, http.StatusNotFound, "No trips found for the given filters")
		return
	case err != nil:
		log.Printf("Error during filtered trips retrieval: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve filtered trips")
		return
	}

	writeTrips(w, page)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Printf("Health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeTrips(w http.ResponseWriter, page *trips.Page) {
	writeJSON(w, http.StatusOK, tripsResponse{
		Data:       page.Data,
		Paging:     page.Paging,
		StatusCode: http.StatusOK,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Errors: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}
