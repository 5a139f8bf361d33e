package trips

import (
	"context"
	"errors"
	"fmt"
	"log"

	"yellow-taxi-trips/filter"
	"yellow-taxi-trips/models"
	"yellow-taxi-trips/pagination"
)

// ErrNotFound means the requested page holds no trips.
var ErrNotFound = errors.New("trips: no trips found")

// Page is one window of trips plus its paging metadata.
type Page struct {
	Data   []models.Trip     `json:"data"`
	Paging pagination.Paging `json:"paging"`
}

// Service answers trip listings. Each call issues its queries one after another.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// GetTrips lists all trips ordered by id.
func (s *Service) GetTrips(ctx context.Context, p pagination.Params) (*Page, error) {
	log.Printf("trips: fetching trips with limit: %d, offset: %d", p.Limit, p.Offset())

	data, err := s.store.ListTrips(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("trips: list: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}

	total, err := s.store.CountTrips(ctx)
	if err != nil {
		return nil, fmt.Errorf("trips: count: %w", err)
	}

	return &Page{Data: data, Paging: p.Paging(total)}, nil
}

// GetFilteredTrips lists the trips matching req. The page count reflects the
// number of matching rows, not the table size. Invalid filters are returned
// as *filter.Error.
func (s *Service) GetFilteredTrips(ctx context.Context, req filter.Request, p pagination.Params) (*Page, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pred := filter.Build(req)
	log.Printf("trips: filtered query: %s with values: %v", pred.SQL(), pred.Args)

	data, err := s.store.ListFiltered(ctx, pred, p.Limit, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("trips: list filtered: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}

	total, err := s.store.CountFiltered(ctx, pred)
	if err != nil {
		return nil, fmt.Errorf("trips: count filtered: %w", err)
	}

	return &Page{Data: data, Paging: p.Paging(total)}, nil
}
