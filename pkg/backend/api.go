package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices travel as JSON numbers both to the backend and to the admin SPA
	decimal.MarshalJSONWithoutQuotes = true
}

// API is the request surface domain clients depend on. *Client implements it.
type API interface {
	Get(ctx context.Context, path string, query url.Values, token string, out any) error
	Post(ctx context.Context, path, token string, body, out any) error
	Put(ctx context.Context, path, token string, body, out any) error
	Patch(ctx context.Context, path, token string, body, out any) error
	Delete(ctx context.Context, path, token string, out any) error
}

var _ API = (*Client)(nil)

// ID accepts identifiers the backend sends as either JSON strings or numbers.
type ID string

func (id *ID) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		*id = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// PathID escapes an identifier for use as a single path segment.
func PathID(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}

// ParseTime reads the ISO timestamps and plain dates the backend emits.
// Unparseable or empty values yield nil.
func ParseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
