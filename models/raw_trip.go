package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"yellow-taxi-trips/geometry"
)

// Text is an upstream field that the trip-data API may send either as a JSON
// string or as a bare JSON number. Both decode to their textual form.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*t = Text(n.String())
	return nil
}

// RawTrip is one element of the upstream JSON array, before any conversion.
type RawTrip struct {
	VendorID         Text `json:"vendor_id"`
	PickupDatetime   Text `json:"pickup_datetime"`
	DropoffDatetime  Text `json:"dropoff_datetime"`
	PassengerCount   Text `json:"passenger_count"`
	TripDistance     Text `json:"trip_distance"`
	PickupLongitude  Text `json:"pickup_longitude"`
	PickupLatitude   Text `json:"pickup_latitude"`
	DropoffLongitude Text `json:"dropoff_longitude"`
	DropoffLatitude  Text `json:"dropoff_latitude"`
	PaymentType      Text `json:"payment_type"`
	FareAmount       Text `json:"fare_amount"`
	MTATax           Text `json:"mta_tax"`
	TipAmount        Text `json:"tip_amount"`
	TollsAmount      Text `json:"tolls_amount"`
	TotalAmount      Text `json:"total_amount"`
	ImpSurcharge     Text `json:"imp_surcharge"`
	RateCode         Text `json:"rate_code"`
}

// FieldError reports the upstream field that failed conversion.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: invalid value %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Parse converts the record into a NewTrip. The first field that fails to
// convert rejects the whole record.
func (r RawTrip) Parse() (NewTrip, error) {
	p := fieldParser{}
	t := NewTrip{
		VendorID:        string(r.VendorID),
		PickupDatetime:  p.timestamp("pickup_datetime", r.PickupDatetime),
		DropoffDatetime: p.timestamp("dropoff_datetime", r.DropoffDatetime),
		PassengerCount:  p.integer("passenger_count", r.PassengerCount),
		TripDistance:    p.float("trip_distance", r.TripDistance),
		PickupLocation:  p.point("pickup", r.PickupLongitude, r.PickupLatitude),
		DropoffLocation: p.point("dropoff", r.DropoffLongitude, r.DropoffLatitude),
		PaymentType:     string(r.PaymentType),
		FareAmount:      p.float("fare_amount", r.FareAmount),
		MTATax:          p.float("mta_tax", r.MTATax),
		TipAmount:       p.float("tip_amount", r.TipAmount),
		TollsAmount:     p.float("tolls_amount", r.TollsAmount),
		TotalAmount:     p.float("total_amount", r.TotalAmount),
		ImpSurcharge:    p.float("imp_surcharge", r.ImpSurcharge),
		RateCode:        string(r.RateCode),
	}
	if p.err != nil {
		return NewTrip{}, p.err
	}
	return t, nil
}

// fieldParser keeps the first conversion error and ignores later fields.
type fieldParser struct {
	err error
}

func (p *fieldParser) fail(field string, v Text, err error) {
	if p.err == nil {
		p.err = &FieldError{Field: field, Value: string(v), Err: err}
	}
}

func (p *fieldParser) integer(field string, v Text) int {
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(v)))
	if err != nil {
		p.fail(field, v, err)
	}
	return n
}

func (p *fieldParser) float(field string, v Text) float64 {
	if p.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	if err != nil {
		p.fail(field, v, err)
	}
	return f
}

func (p *fieldParser) timestamp(field string, v Text) time.Time {
	if p.err != nil {
		return time.Time{}
	}
	ts, err := ParseTimestamp(string(v))
	if err != nil {
		p.fail(field, v, err)
	}
	return ts
}

func (p *fieldParser) point(prefix string, lon, lat Text) geometry.Point {
	if p.err != nil {
		return geometry.Point{}
	}
	pt, err := geometry.NewPoint(string(lon), string(lat))
	if err != nil {
		p.fail(prefix+"_location", lon+" "+lat, err)
	}
	return pt
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts the ISO-8601 shapes the trip-data API and API
// clients use, with or without a zone offset. Values without an offset are
// taken as UTC; values with one are converted to UTC, since the trips columns
// are TIMESTAMP without time zone and would otherwise drop the offset.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 timestamp: %q", s)
}
