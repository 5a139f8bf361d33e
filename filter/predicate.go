package filter

import (
	"strconv"
	"strings"
)

// Predicate is a WHERE fragment and the values bound to its placeholders.
// Clause i references placeholder $(i+1) and Args[i].
type Predicate struct {
	Clauses []string
	Args    []interface{}
}

// SQL renders the predicate as a WHERE clause, or "" when nothing is constrained.
func (p Predicate) SQL() string {
	if len(p.Clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.TrimPrefix(strings.Join(p.Clauses, " "), "AND ")
}

// NextPlaceholder is the first placeholder index free after the predicate's
// own, for parameters appended by the caller (LIMIT, OFFSET).
func (p Predicate) NextPlaceholder() int {
	return len(p.Args) + 1
}

type descriptor struct {
	present bool
	column  string
	op      string
	value   func() interface{}
}

// descriptors lists the filters in the order their placeholders are assigned.
func (r Request) descriptors() []descriptor {
	return []descriptor{
		{r.StartDateTime != nil, "pickup_datetime", ">=", func() interface{} { return *r.StartDateTime }},
		{r.EndDateTime != nil, "dropoff_datetime", "<=", func() interface{} { return *r.EndDateTime }},
		{r.MinFare != nil, "fare_amount", ">=", func() interface{} { return *r.MinFare }},
		{r.MaxFare != nil, "fare_amount", "<=", func() interface{} { return *r.MaxFare }},
		{r.MinDistance != nil, "trip_distance", ">=", func() interface{} { return *r.MinDistance }},
		{r.MaxDistance != nil, "trip_distance", "<=", func() interface{} { return *r.MaxDistance }},
		{r.PaymentType != nil && *r.PaymentType != "", "payment_type", "=", func() interface{} { return *r.PaymentType }},
	}
}

// Build emits one "AND <column> <op> $n" clause per present filter. Placeholders
// are numbered from 1 without gaps, so Args lines up with them positionally.
func Build(r Request) Predicate {
	var p Predicate
	for _, d := range r.descriptors() {
		if !d.present {
			continue
		}
		p.Args = append(p.Args, d.value())
		p.Clauses = append(p.Clauses, "AND "+d.column+" "+d.op+" $"+strconv.Itoa(len(p.Args)))
	}
	return p
}
