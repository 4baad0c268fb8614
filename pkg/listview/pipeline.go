package listview

import (
	"slices"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts asc/desc in any case and defaults to fallback.
func ParseDirection(raw string, fallback Direction) Direction {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(Asc):
		return Asc
	case string(Desc):
		return Desc
	}
	return fallback
}

const DefaultPageSize = 10

// Query is the user-controlled state of one list page.
type Query struct {
	Search  string            `json:"search,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	SortKey string            `json:"sortBy,omitempty"`
	SortDir Direction         `json:"sortDirection,omitempty"`
	Page    int               `json:"page"`
}

// Clone returns a deep copy so callers can mutate filters safely.
func (q Query) Clone() Query {
	out := q
	if q.Filters != nil {
		out.Filters = make(map[string]string, len(q.Filters))
		for k, v := range q.Filters {
			out.Filters[k] = v
		}
	}
	return out
}

// Spec parameterizes the pipeline for one entity type.
type Spec[T any] struct {
	// Search lists the fields matched by the free-text search.
	Search []func(T) string
	// Filters maps a filter key onto the field it is compared against.
	Filters map[string]func(T) string
	// Sorts maps a sort key onto the value it orders by.
	Sorts       map[string]func(T) Value
	DefaultSort string
	DefaultDir  Direction
	PageSize    int
}

// HasFilter reports whether key is a declared filter.
func (s Spec[T]) HasFilter(key string) bool {
	_, ok := s.Filters[key]
	return ok
}

// HasSort reports whether key is a declared sort column.
func (s Spec[T]) HasSort(key string) bool {
	_, ok := s.Sorts[key]
	return ok
}

// FilterKeys lists declared filter keys in sorted order.
func (s Spec[T]) FilterKeys() []string {
	keys := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s Spec[T]) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return DefaultPageSize
}

// Normalize fills in the default sort and clamps the page number.
func (s Spec[T]) Normalize(q Query) Query {
	out := q.Clone()
	out.Search = strings.TrimSpace(out.Search)
	if out.SortKey == "" || !s.HasSort(out.SortKey) {
		out.SortKey = s.DefaultSort
		if out.SortDir == "" {
			out.SortDir = s.DefaultDir
		}
	}
	if out.SortDir != Asc && out.SortDir != Desc {
		out.SortDir = Asc
	}
	if out.Page < 1 {
		out.Page = 1
	}
	return out
}

// Result is one rendered page plus the size of the filtered set.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	Query      Query `json:"query"`
}

// IsEmpty reports a successful load with zero matching rows.
func (r Result[T]) IsEmpty() bool {
	return r.Total == 0
}

// Apply runs search, filter, sort and pagination over items. The input slice
// is never reordered or modified.
func Apply[T any](items []T, q Query, spec Spec[T]) Result[T] {
	q = spec.Normalize(q)

	filtered := make([]T, 0, len(items))
	needle := strings.ToLower(q.Search)
	for _, item := range items {
		if !matchesSearch(item, needle, spec.Search) {
			continue
		}
		if !matchesFilters(item, q.Filters, spec.Filters) {
			continue
		}
		filtered = append(filtered, item)
	}

	if key, ok := spec.Sorts[q.SortKey]; ok {
		sortStable(filtered, key, q.SortDir)
	}

	size := spec.pageSize()
	total := len(filtered)
	// Compare in pages first; (Page-1)*size overflows for huge pages.
	start := total
	if q.Page-1 <= total/size {
		start = min((q.Page-1)*size, total)
	}
	end := start + size
	if end > total {
		end = total
	}

	return Result[T]{
		Items:      filtered[start:end:end],
		Total:      total,
		Page:       q.Page,
		PageSize:   size,
		TotalPages: TotalPages(total, size),
		Query:      q,
	}
}

// TotalPages is ceil(total/size), never below zero.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

func matchesSearch[T any](item T, needle string, fields []func(T) string) bool {
	if needle == "" {
		return true
	}
	for _, field := range fields {
		value := field(item)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](item T, selected map[string]string, fields map[string]func(T) string) bool {
	for key, want := range selected {
		if want == "" {
			continue
		}
		field, ok := fields[key]
		if !ok {
			continue
		}
		if field(item) != want {
			return false
		}
	}
	return true
}

func sortStable[T any](items []T, key func(T) Value, dir Direction) {
	slices.SortStableFunc(items, func(a, b T) int {
		va, vb := key(a), key(b)
		switch {
		case va.IsNull() && vb.IsNull():
			return 0
		case va.IsNull():
			if dir == Desc {
				return 1
			}
			return -1
		case vb.IsNull():
			if dir == Desc {
				return -1
			}
			return 1
		}
		c := compare(va, vb)
		if dir == Desc {
			return -c
		}
		return c
	})
}
