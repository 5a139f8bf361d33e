// Package ingest copies trip records from the upstream data API into the
// trips table.
package ingest

import (
	"context"
	"fmt"
	"log"

	"yellow-taxi-trips/models"
)

// Source yields the raw upstream records.
type Source interface {
	Fetch(ctx context.Context) ([]models.RawTrip, error)
}

// Writer persists one parsed trip.
type Writer interface {
	InsertTrip(ctx context.Context, t models.NewTrip) error
}

// Result reports how many rows were inserted.
type Result struct {
	Fetched   int
	Processed int
}

// Pipeline fetches once and inserts each record in order, one statement per
// record. The first failure stops the run; rows inserted before it stay.
type Pipeline struct {
	source Source
	writer Writer
}

func NewPipeline(source Source, writer Writer) *Pipeline {
	return &Pipeline{source: source, writer: writer}
}

// Run returns the partial Result together with the error when it aborts.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	var res Result

	records, err := p.source.Fetch(ctx)
	if err != nil {
		return res, fmt.Errorf("ingest: %w", err)
	}
	res.Fetched = len(records)
	log.Printf("ingest: fetched %d records", res.Fetched)

	for i, raw := range records {
		trip, err := raw.Parse()
		if err != nil {
			return res, fmt.Errorf("ingest: record %d: %w", i+1, err)
		}
		if err := p.writer.InsertTrip(ctx, trip); err != nil {
			return res, fmt.Errorf("ingest: record %d: %w", i+1, err)
		}
		res.Processed++
	}

	log.Printf("ingest: stored %d records", res.Processed)
	return res, nil
}
