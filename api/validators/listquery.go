package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
)

const (
	maxSearchLength = 200
	maxListPage     = 100000
)

// ParseListQuery reads the list-page query string: search (or q), sortBy,
// sortDirection, page and one parameter per declared filter key. Parameters
// that are not declared filters are ignored; an empty filter means no filter.
func ParseListQuery(r *http.Request, filterKeys []string) (listview.Query, error) {
	values := r.URL.Query()

	search := values.Get("search")
	if search == "" {
		search = values.Get("q")
	}

	q := listview.Query{
		Search:  SanitizeString(search, maxSearchLength),
		SortKey: strings.TrimSpace(values.Get("sortBy")),
		Page:    1,
	}

	if raw := strings.TrimSpace(values.Get("sortDirection")); raw != "" {
		dir := listview.ParseDirection(raw, "")
		if dir == "" {
			return listview.Query{}, pkgerrors.New(pkgerrors.CodeValidation, "sortDirection must be asc or desc").
				WithDetails(map[string]any{"field": "sortDirection"})
		}
		q.SortDir = dir
	}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page > maxListPage {
			return listview.Query{}, pkgerrors.Newf(pkgerrors.CodeValidation, "page must be between 1 and %d", maxListPage).
				WithDetails(map[string]any{"field": "page"})
		}
		q.Page = page
	}

	for _, key := range filterKeys {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			if q.Filters == nil {
				q.Filters = make(map[string]string, len(filterKeys))
			}
			q.Filters[key] = v
		}
	}
	return q, nil
}
