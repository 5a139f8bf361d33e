package models

import (
	"time"

	"yellow-taxi-trips/geometry"
)

// Trip is one stored taxi ride as returned by the read API.
type Trip struct {
	ID              int64          `json:"id"`
	VendorID        string         `json:"vendor_id"`
	PickupDatetime  time.Time      `json:"pickup_datetime"`
	DropoffDatetime time.Time      `json:"dropoff_datetime"`
	PassengerCount  int            `json:"passenger_count"`
	TripDistance    float64        `json:"trip_distance"`
	PickupLocation  geometry.Point `json:"pickup_location"`
	DropoffLocation geometry.Point `json:"dropoff_location"`
	PaymentType     string         `json:"payment_type"`
	FareAmount      float64        `json:"fare_amount"`
	MTATax          float64        `json:"mta_tax"`
	TipAmount       float64        `json:"tip_amount"`
	TollsAmount     float64        `json:"tolls_amount"`
	TotalAmount     float64        `json:"total_amount"` // not reconciled against the other amounts
	ImpSurcharge    float64        `json:"imp_surcharge"`
	RateCode        string         `json:"rate_code"`
}

// NewTrip is a validated upstream record ready to be inserted. The identifier
// is assigned by the database.
type NewTrip struct {
	VendorID        string
	PickupDatetime  time.Time
	DropoffDatetime time.Time
	PassengerCount  int
	TripDistance    float64
	PickupLocation  geometry.Point
	DropoffLocation geometry.Point
	PaymentType     string
	FareAmount      float64
	MTATax          float64
	TipAmount       float64
	TollsAmount     float64
	TotalAmount     float64
	ImpSurcharge    float64
	RateCode        string
}
