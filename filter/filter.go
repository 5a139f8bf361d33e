// Package filter turns the optional trip filters of a request into a
// parameterized SQL predicate.
package filter

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"yellow-taxi-trips/models"
)

// Query-string keys.
const (
	KeyStartDateTime = "startDateTime"
	KeyEndDateTime   = "endDateTime"
	KeyMinFare       = "minFare"
	KeyMaxFare       = "maxFare"
	KeyMinDistance   = "minDistance"
	KeyMaxDistance   = "maxDistance"
	KeyPaymentType   = "paymentType"
)

// Request holds the optional trip filters. A nil field imposes no constraint.
type Request struct {
	StartDateTime *time.Time
	EndDateTime   *time.Time
	MinFare       *float64
	MaxFare       *float64
	MinDistance   *float64
	MaxDistance   *float64
	PaymentType   *string
}

// Error is a filter value that cannot be used. Callers report it as a bad request.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ParseQuery reads the filters from query-string values. Empty values count as
// absent. keys lists the other parameters the caller accepts; anything else
// is rejected.
func ParseQuery(q url.Values, keys ...string) (Request, error) {
	if err := checkKeys(q, keys); err != nil {
		return Request{}, err
	}

	var (
		r   Request
		err error
	)
	if r.StartDateTime, err = timeParam(q, KeyStartDateTime); err != nil {
		return Request{}, err
	}
	if r.EndDateTime, err = timeParam(q, KeyEndDateTime); err != nil {
		return Request{}, err
	}
	if r.MinFare, err = numberParam(q, KeyMinFare); err != nil {
		return Request{}, err
	}
	if r.MaxFare, err = numberParam(q, KeyMaxFare); err != nil {
		return Request{}, err
	}
	if r.MinDistance, err = numberParam(q, KeyMinDistance); err != nil {
		return Request{}, err
	}
	if r.MaxDistance, err = numberParam(q, KeyMaxDistance); err != nil {
		return Request{}, err
	}
	if s := strings.TrimSpace(q.Get(KeyPaymentType)); s != "" {
		r.PaymentType = &s
	}
	return r, nil
}

var recognized = map[string]bool{
	KeyStartDateTime: true,
	KeyEndDateTime:   true,
	KeyMinFare:       true,
	KeyMaxFare:       true,
	KeyMinDistance:   true,
	KeyMaxDistance:   true,
	KeyPaymentType:   true,
}

func checkKeys(q url.Values, extra []string) error {
	var unknown []string
	for k := range q {
		if recognized[k] || contains(extra, k) {
			continue
		}
		unknown = append(unknown, k)
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &Error{Field: "query", Message: "unrecognized parameter(s) " + strings.Join(unknown, ", ")}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func timeParam(q url.Values, key string) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	t, err := models.ParseTimestamp(raw)
	if err != nil {
		return nil, &Error{Field: key, Message: "must be an ISO-8601 date-time"}
	}
	return &t, nil
}

func numberParam(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &Error{Field: key, Message: "must be a number"}
	}
	return &f, nil
}

// Validate checks the numeric bounds are finite. Negative bounds are allowed.
func (r Request) Validate() error {
	for _, b := range []struct {
		key string
		v   *float64
	}{
		{KeyMinFare, r.MinFare},
		{KeyMaxFare, r.MaxFare},
		{KeyMinDistance, r.MinDistance},
		{KeyMaxDistance, r.MaxDistance},
	} {
		if b.v == nil {
			continue
		}
		if math.IsNaN(*b.v) || math.IsInf(*b.v, 0) {
			return &Error{Field: b.key, Message: "must be a finite number"}
		}
	}
	if r.PaymentType != nil && *r.PaymentType == "" {
		return &Error{Field: KeyPaymentType, Message: "must not be empty"}
	}
	return nil
}
