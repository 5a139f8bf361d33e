package pagination

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 1000
)

// Params is a 1-indexed page window.
type Params struct {
	Page  int
	Limit int
}

// Paging is the metadata returned alongside a page of results.
type Paging struct {
	Size        int `json:"size"`
	TotalPage   int `json:"total_page"`
	CurrentPage int `json:"current_page"`
}

// Result is the outcome of Paginate.
type Result struct {
	Offset     int
	TotalPages int
}

// Error reports an unusable page or limit parameter.
type Error struct {
	Param  string
	Value  string
	Reason string // empty means "must be a positive integer"
}

func (e *Error) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "must be a positive integer"
	}
	return fmt.Sprintf("invalid %s parameter %q: %s", e.Param, e.Value, reason)
}

// Parse reads `page` and `limit` from the query string, defaulting to 1 and 10.
func Parse(q url.Values) (Params, error) {
	page, err := positiveInt(q, "page", DefaultPage)
	if err != nil {
		return Params{}, err
	}
	limit, err := positiveInt(q, "limit", DefaultLimit)
	if err != nil {
		return Params{}, err
	}
	if limit > MaxLimit {
		return Params{}, &Error{Param: "limit", Value: q.Get("limit"), Reason: fmt.Sprintf("must not exceed %d", MaxLimit)}
	}
	// The offset (page-1)*limit must fit in an int.
	if page-1 > math.MaxInt/limit {
		return Params{}, &Error{Param: "page", Value: q.Get("page"), Reason: "too large for the given limit"}
	}
	return Params{Page: page, Limit: limit}, nil
}

func positiveInt(q url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, &Error{Param: key, Value: raw}
	}
	return v, nil
}

// Offset is the number of rows preceding the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit); zero rows means zero pages.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

// Paginate computes the row offset and page count for a window over total rows.
// Pages past the last are not an error here.
func Paginate(page, limit int, total int64) Result {
	p := Params{Page: page, Limit: limit}
	return Result{Offset: p.Offset(), TotalPages: TotalPages(total, limit)}
}

// Paging builds the response metadata for this window.
func (p Params) Paging(total int64) Paging {
	return Paging{Size: p.Limit, TotalPage: TotalPages(total, p.Limit), CurrentPage: p.Page}
}
