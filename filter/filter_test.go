package filter

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func posInf() float64 { return math.Inf(1) }

func nan() float64 { return math.NaN() }

func fullRequest() Request {
	start := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2014, 1, 31, 23, 59, 59, 0, time.UTC)
	return Request{
		StartDateTime: &start,
		EndDateTime:   &end,
		MinFare:       ptr(5.0),
		MaxFare:       ptr(50.0),
		MinDistance:   ptr(1.0),
		MaxDistance:   ptr(10.0),
		PaymentType:   ptr("CRD"),
	}
}

func TestBuild_Empty(t *testing.T) {
	p := Build(Request{})
	if len(p.Clauses) != 0 || len(p.Args) != 0 {
		t.Fatalf("Build(empty) = %+v, want no clauses", p)
	}
	if p.SQL() != "" {
		t.Errorf("SQL() = %q, want empty", p.SQL())
	}
	if p.NextPlaceholder() != 1 {
		t.Errorf("NextPlaceholder = %d, want 1", p.NextPlaceholder())
	}
}

func TestBuild_AllFields(t *testing.T) {
	r := fullRequest()
	p := Build(r)

	wantClauses := []string{
		"AND pickup_datetime >= $1",
		"AND dropoff_datetime <= $2",
		"AND fare_amount >= $3",
		"AND fare_amount <= $4",
		"AND trip_distance >= $5",
		"AND trip_distance <= $6",
		"AND payment_type = $7",
	}
	if len(p.Clauses) != len(wantClauses) {
		t.Fatalf("clauses = %v", p.Clauses)
	}
	for i, c := range wantClauses {
		if p.Clauses[i] != c {
			t.Errorf("clause %d = %q, want %q", i, p.Clauses[i], c)
		}
	}

	wantArgs := []interface{}{*r.StartDateTime, *r.EndDateTime, 5.0, 50.0, 1.0, 10.0, "CRD"}
	for i, a := range wantArgs {
		if p.Args[i] != a {
			t.Errorf("arg %d = %v, want %v", i, p.Args[i], a)
		}
	}

	wantSQL := "WHERE pickup_datetime >= $1 AND dropoff_datetime <= $2 AND fare_amount >= $3 " +
		"AND fare_amount <= $4 AND trip_distance >= $5 AND trip_distance <= $6 AND payment_type = $7"
	if p.SQL() != wantSQL {
		t.Errorf("SQL() = %q\nwant     %q", p.SQL(), wantSQL)
	}
	if p.NextPlaceholder() != 8 {
		t.Errorf("NextPlaceholder = %d, want 8", p.NextPlaceholder())
	}
}

func TestBuild_GapsDoNotSkipPlaceholders(t *testing.T) {
	p := Build(Request{MaxFare: ptr(20.0), PaymentType: ptr("CSH")})

	want := []string{"AND fare_amount <= $1", "AND payment_type = $2"}
	if fmt.Sprint(p.Clauses) != fmt.Sprint(want) {
		t.Errorf("clauses = %v, want %v", p.Clauses, want)
	}
	if p.Args[0] != 20.0 || p.Args[1] != "CSH" {
		t.Errorf("args = %v", p.Args)
	}
	if p.SQL() != "WHERE fare_amount <= $1 AND payment_type = $2" {
		t.Errorf("SQL() = %q", p.SQL())
	}
}

// Every subset of the seven filters yields k clauses, k values and
// placeholders $1..$k in order.
func TestBuild_AllSubsets(t *testing.T) {
	full := fullRequest()
	for mask := 0; mask < 1<<7; mask++ {
		var r Request
		k := 0
		set := func(bit int, apply func()) {
			if mask&(1<<bit) != 0 {
				apply()
				k++
			}
		}
		set(0, func() { r.StartDateTime = full.StartDateTime })
		set(1, func() { r.EndDateTime = full.EndDateTime })
		set(2, func() { r.MinFare = full.MinFare })
		set(3, func() { r.MaxFare = full.MaxFare })
		set(4, func() { r.MinDistance = full.MinDistance })
		set(5, func() { r.MaxDistance = full.MaxDistance })
		set(6, func() { r.PaymentType = full.PaymentType })

		p := Build(r)
		if len(p.Clauses) != k || len(p.Args) != k {
			t.Fatalf("mask %07b: %d clauses, %d args, want %d", mask, len(p.Clauses), len(p.Args), k)
		}
		for i, c := range p.Clauses {
			if !strings.HasPrefix(c, "AND ") {
				t.Errorf("mask %07b: clause %q lacks AND", mask, c)
			}
			if !strings.HasSuffix(c, fmt.Sprintf("$%d", i+1)) {
				t.Errorf("mask %07b: clause %d = %q, want placeholder $%d", mask, i, c, i+1)
			}
		}
	}
}

func TestBuild_EmptyPaymentTypeIsAbsent(t *testing.T) {
	p := Build(Request{PaymentType: ptr("")})
	if len(p.Clauses) != 0 {
		t.Errorf("clauses = %v, want none", p.Clauses)
	}
}

func TestParseQuery(t *testing.T) {
	q := url.Values{
		KeyStartDateTime: {"2014-01-01T00:00:00Z"},
		KeyMinFare:       {"12.5"},
		KeyMaxDistance:   {"3"},
		KeyPaymentType:   {"CSH"},
		KeyMaxFare:       {""},
		"page":           {"2"},
	}

	r, err := ParseQuery(q, "page", "limit")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if r.StartDateTime == nil || !r.StartDateTime.Equal(time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartDateTime = %v", r.StartDateTime)
	}
	if r.MinFare == nil || *r.MinFare != 12.5 {
		t.Errorf("MinFare = %v", r.MinFare)
	}
	if r.MaxFare != nil {
		t.Errorf("MaxFare = %v, want nil for empty value", *r.MaxFare)
	}
	if r.MaxDistance == nil || *r.MaxDistance != 3 {
		t.Errorf("MaxDistance = %v", r.MaxDistance)
	}
	if r.PaymentType == nil || *r.PaymentType != "CSH" {
		t.Errorf("PaymentType = %v", r.PaymentType)
	}
	if r.EndDateTime != nil || r.MinDistance != nil {
		t.Errorf("unexpected fields set: %+v", r)
	}
}

func TestParseQuery_Errors(t *testing.T) {
	tests := []struct {
		name      string
		q         url.Values
		wantField string
	}{
		{"fare not numeric", url.Values{KeyMinFare: {"cheap"}}, KeyMinFare},
		{"max fare not numeric", url.Values{KeyMaxFare: {"12abc"}}, KeyMaxFare},
		{"distance not numeric", url.Values{KeyMinDistance: {"far"}}, KeyMinDistance},
		{"max distance not numeric", url.Values{KeyMaxDistance: {"--1"}}, KeyMaxDistance},
		{"bad start time", url.Values{KeyStartDateTime: {"yesterday"}}, KeyStartDateTime},
		{"bad end time", url.Values{KeyEndDateTime: {"2014-02-30"}}, KeyEndDateTime},
		{"unknown key", url.Values{"minTip": {"1"}}, "query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(tt.q, "page", "limit")
			var fe *Error
			if !errors.As(err, &fe) {
				t.Fatalf("error = %v, want *Error", err)
			}
			if fe.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", fe.Field, tt.wantField)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := fullRequest().Validate(); err != nil {
		t.Fatalf("full request: %v", err)
	}
	if err := (Request{}).Validate(); err != nil {
		t.Fatalf("empty request: %v", err)
	}
	if err := (Request{MinFare: ptr(-1.0), MaxDistance: ptr(-0.5)}).Validate(); err != nil {
		t.Fatalf("negative bounds: %v", err)
	}

	tests := []struct {
		name string
		r    Request
	}{
		{"infinite distance", Request{MaxDistance: ptr(posInf())}},
		{"NaN fare", Request{MaxFare: ptr(nan())}},
		{"empty payment type", Request{PaymentType: ptr("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fe *Error
			if err := tt.r.Validate(); !errors.As(err, &fe) {
				t.Errorf("Validate = %v, want *Error", err)
			}
		})
	}
}

func TestParseQuery_OffsetNormalizedToUTC(t *testing.T) {
	r, err := ParseQuery(url.Values{KeyStartDateTime: {"2014-01-01T05:00:00+05:00"}})
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if r.StartDateTime.Location() != time.UTC || r.StartDateTime.Hour() != 0 {
		t.Errorf("StartDateTime = %v, want 2014-01-01 00:00:00 UTC", r.StartDateTime)
	}

	// The bound value carries the UTC wall clock.
	args := Build(r).Args
	if got := args[0].(time.Time); got.Location() != time.UTC {
		t.Errorf("bound arg location = %v, want UTC", got.Location())
	}
}
