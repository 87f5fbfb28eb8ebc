package domain

import (
	"strings"
	"time"
)

// ListFilter narrows a listing to matching activities. Conditions combine
// with logical AND; zero values mean "no restriction".
type ListFilter struct {
	ActivityType ActivityType
	Start        *time.Time // date >= Start, inclusive
	End          *time.Time // date <= End, inclusive
}

// OrderKey names a sortable activity column.
type OrderKey string

const (
	OrderByDate     OrderKey = "date"
	OrderByDuration OrderKey = "duration"
	OrderByCalories OrderKey = "calories_burned"
	OrderByDistance OrderKey = "distance"
)

// Ordering selects the sort key and direction for a listing.
type Ordering struct {
	Key  OrderKey
	Desc bool
}

// DefaultOrdering is most-recent-first, the ordering every unordered listing
// falls back to.
func DefaultOrdering() Ordering {
	return Ordering{Key: OrderByDate, Desc: true}
}

// ParseOrdering interprets an ordering parameter such as "duration" or
// "-date" (leading dash for descending). Unknown keys fall back to the
// default ordering.
func ParseOrdering(raw string) Ordering {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultOrdering()
	}
	desc := false
	if strings.HasPrefix(raw, "-") {
		desc = true
		raw = raw[1:]
	}
	switch OrderKey(raw) {
	case OrderByDate, OrderByDuration, OrderByCalories, OrderByDistance:
		return Ordering{Key: OrderKey(raw), Desc: desc}
	}
	return DefaultOrdering()
}

// Page bounds one page of a listing.
type Page struct {
	Offset int
	Limit  int
}

// ListResult is one page of activities plus the total match count and the
// offset of the following page, if any.
type ListResult struct {
	Items      []Activity
	Total      int
	NextOffset *int
}
