package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

const base = "SELECT * FROM products"

func mustBuild(t *testing.T, params url.Values, perPage int) (string, []any) {
	t.Helper()
	q, err := BuildProductQuery(params, perPage)
	require.NoError(t, err)
	return q.SelectSQL(base)
}

func TestKeywordStage(t *testing.T) {
	sql, args := mustBuild(t, url.Values{"keyword": {"PHO"}}, 5)
	assert.Contains(t, sql, "name ILIKE $1")
	require.Len(t, args, 1)
	// ILIKE makes the substring match case-insensitive: "PHO" finds "phone"
	assert.Equal(t, "%PHO%", args[0])
}

func TestKeywordAbsentPassesThrough(t *testing.T) {
	sql, args := mustBuild(t, url.Values{}, 5)
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
}

func TestKeywordEscapesLikeMetacharacters(t *testing.T) {
	_, args := mustBuild(t, url.Values{"keyword": {"100%_wool"}}, 5)
	assert.Equal(t, `%100\%\_wool%`, args[0])
}

func TestFilterEquality(t *testing.T) {
	sql, args := mustBuild(t, url.Values{"category": {"laptop"}}, 5)
	assert.Contains(t, sql, "category = $1")
	assert.Equal(t, []any{"laptop"}, args)
}

func TestFilterRangeOperators(t *testing.T) {
	for param, want := range map[string]string{
		"price[gt]":  "price > $1",
		"price[gte]": "price >= $1",
		"price[lt]":  "price < $1",
		"price[lte]": "price <= $1",
	} {
		sql, args := mustBuild(t, url.Values{param: {"100"}}, 5)
		assert.Contains(t, sql, want, param)
		assert.Equal(t, []any{100.0}, args, param)
	}
}

func TestFilterCombinedRange(t *testing.T) {
	sql, args := mustBuild(t, url.Values{
		"price[gte]": {"100"},
		"price[lte]": {"2000"},
		"category":   {"phone"},
	}, 5)
	assert.Contains(t, sql, "category = $1")
	assert.Contains(t, sql, "price >= $2")
	assert.Contains(t, sql, "price <= $3")
	assert.Equal(t, []any{"phone", 100.0, 2000.0}, args)
}

func TestReservedKeysNeverFilter(t *testing.T) {
	// reserved control keys must be stripped even when shaped like filters
	sql, args := mustBuild(t, url.Values{
		"keyword":   {"tv"},
		"page":      {"2"},
		"limit":     {"50"},
		"page[gte]": {"1"},
	}, 5)
	assert.Contains(t, sql, "name ILIKE $1")
	assert.NotContains(t, sql, "page")
	assert.NotContains(t, sql, "limit")
	assert.Len(t, args, 1)
}

func TestUnknownFilterFieldRejected(t *testing.T) {
	_, err := BuildProductQuery(url.Values{"password_hash": {"x"}}, 5)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = BuildProductQuery(url.Values{"price[between]": {"1"}}, 5)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = BuildProductQuery(url.Values{"price[gte]": {"cheap"}}, 5)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestPagination(t *testing.T) {
	cases := []struct {
		name string
		page string
		want string
	}{
		{"absent", "", "LIMIT 5 OFFSET 0"},
		{"first", "1", "LIMIT 5 OFFSET 0"},
		{"third", "3", "LIMIT 5 OFFSET 10"},
		{"zero", "0", "LIMIT 5 OFFSET 0"},
		{"negative", "-2", "LIMIT 5 OFFSET 0"},
		{"non-numeric", "abc", "LIMIT 5 OFFSET 0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := url.Values{}
			if tc.page != "" {
				params.Set("page", tc.page)
			}
			sql, _ := mustBuild(t, params, 5)
			assert.Contains(t, sql, tc.want)
		})
	}
}

func TestStableOrderForPagination(t *testing.T) {
	sql, _ := mustBuild(t, url.Values{}, 5)
	assert.Contains(t, sql, "ORDER BY created_at DESC, id")
}

func TestDeterministicStatement(t *testing.T) {
	params := url.Values{
		"category":   {"phone"},
		"price[gte]": {"100"},
		"stock[gt]":  {"0"},
	}
	first, _ := mustBuild(t, params, 5)
	for i := 0; i < 20; i++ {
		again, _ := mustBuild(t, params, 5)
		require.Equal(t, first, again)
	}
}
