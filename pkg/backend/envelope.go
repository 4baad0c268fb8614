package backend

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// ListEnvelope is the paginated list shape returned by backend list endpoints.
// Some endpoints name the page size `limit`, others `pageSize`.
type ListEnvelope[T any] struct {
	Data     []T `json:"data"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	Limit    int `json:"limit,omitempty"`
	PageSize int `json:"pageSize,omitempty"`
}

// ItemEnvelope wraps single-entity responses of the content endpoints.
type ItemEnvelope[T any] struct {
	Data T `json:"data"`
}

// DeleteResult is returned by delete endpoints.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Flexible decodes either a bare object or a {"data": ...} wrapper.
type Flexible[T any] struct {
	Value T
}

func (f *Flexible[T]) UnmarshalJSON(raw []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err == nil {
		if inner, ok := probe["data"]; ok && len(probe) == 1 {
			return json.Unmarshal(inner, &f.Value)
		}
	}
	return json.Unmarshal(raw, &f.Value)
}

// PageQuery builds the page/limit query most list endpoints accept.
func PageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
