package validators

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/evolutionflow/admin-bff/pkg/errors"
	"github.com/evolutionflow/admin-bff/pkg/listview"
)

func TestParseListQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/members?search=%20Kim%20&status=active&membershipLevel=&role=x&sortBy=name&sortDirection=DESC&page=3", nil)

	q, err := ParseListQuery(req, []string{"status", "membershipLevel"})
	require.NoError(t, err)

	assert.Equal(t, "Kim", q.Search)
	assert.Equal(t, map[string]string{"status": "active"}, q.Filters)
	assert.Equal(t, "name", q.SortKey)
	assert.Equal(t, listview.Desc, q.SortDir)
	assert.Equal(t, 3, q.Page)
}

func TestParseListQueryAcceptsQAlias(t *testing.T) {
	req := httptest.NewRequest("GET", "/instructors?q=yoga", nil)

	q, err := ParseListQuery(req, nil)
	require.NoError(t, err)

	assert.Equal(t, "yoga", q.Search)
	assert.Equal(t, 1, q.Page)
	assert.Nil(t, q.Filters)
	assert.Empty(t, q.SortDir)
}

func TestParseListQueryRejectsBadInput(t *testing.T) {
	for _, target := range []string{
		"/members?page=0",
		"/members?page=abc",
		"/members?page=9223372036854775807",
		"/members?page=100001",
		"/members?sortDirection=sideways",
	} {
		t.Run(target, func(t *testing.T) {
			_, err := ParseListQuery(httptest.NewRequest("GET", target, nil), nil)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
}

func TestParseListQueryKeepsSearchRunesWhole(t *testing.T) {
	search := strings.Repeat("요가", 80)
	req := httptest.NewRequest("GET", "/members?search="+url.QueryEscape(search), nil)

	q, err := ParseListQuery(req, nil)
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(q.Search))
	assert.LessOrEqual(t, len(q.Search), maxSearchLength)
	assert.True(t, strings.HasPrefix(search, q.Search))
	assert.Equal(t, 66, utf8.RuneCountInString(q.Search))
}
