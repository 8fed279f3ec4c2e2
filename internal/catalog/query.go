package catalog

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/habuli/go-shop-backend.git/internal/apperr"
)

// ProductQuery composes the catalog listing statement from raw query-string
// parameters in three fixed stages: keyword search, attribute filters,
// pagination. Each stage narrows the previous one. The composer only builds
// SQL text + args; it never touches the database.

// Control keys consumed by the composer itself, never treated as attributes.
var reservedKeys = map[string]bool{
	"keyword": true,
	"page":    true,
	"limit":   true,
}

// Filterable columns and how their raw values are coerced. Anything outside
// this set is rejected; column names never come from client input.
var filterColumns = map[string]func(string) (any, error){
	"price":    parseNumber,
	"ratings":  parseNumber,
	"stock":    parseInt,
	"category": func(s string) (any, error) { return s, nil },
}

var rangeOps = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

type ProductQuery struct {
	where  []string
	args   []any
	limit  int
	offset int
}

// BuildProductQuery runs all three stages over params with a fixed page size.
func BuildProductQuery(params url.Values, perPage int) (*ProductQuery, error) {
	q := &ProductQuery{}
	q.search(params)
	if err := q.filter(params); err != nil {
		return nil, err
	}
	q.paginate(params, perPage)
	return q, nil
}

// search restricts to products whose name contains the keyword,
// case-insensitively. Empty or absent keyword passes through.
func (q *ProductQuery) search(params url.Values) {
	kw := params.Get("keyword")
	if kw == "" {
		return
	}
	q.addWhere("name ILIKE "+q.placeholder(), "%"+escapeLike(kw)+"%")
}

// filter turns every non-reserved parameter into an equality or range
// constraint. Range operators arrive in bracket form, e.g. price[gte]=100.
func (q *ProductQuery) filter(params url.Values) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic statement for a given parameter set

	for _, k := range keys {
		field, op := splitBracket(k)
		if reservedKeys[field] {
			continue
		}
		coerce, ok := filterColumns[field]
		if !ok {
			return apperr.Newf(apperr.Validation, "cannot filter on %q", field)
		}
		cmp := "="
		if op != "" {
			cmp, ok = rangeOps[op]
			if !ok {
				return apperr.Newf(apperr.Validation, "unknown operator %q for %q", op, field)
			}
		}
		for _, raw := range params[k] {
			v, err := coerce(raw)
			if err != nil {
				return apperr.Newf(apperr.Validation, "invalid value %q for %q", raw, field)
			}
			q.addWhere(fmt.Sprintf("%s %s %s", field, cmp, q.placeholder()), v)
		}
	}
	return nil
}

// paginate skips (page-1)*perPage rows and limits to perPage. Absent,
// non-numeric or non-positive page numbers behave as page 1.
func (q *ProductQuery) paginate(params url.Values, perPage int) {
	page, err := strconv.Atoi(params.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	q.limit = perPage
	q.offset = (page - 1) * perPage
}

// SelectSQL appends the composed clauses to a base SELECT over products.
func (q *ProductQuery) SelectSQL(base string) (string, []any) {
	var b strings.Builder
	b.WriteString(base)
	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.where, " AND "))
	}
	// stable order so pages partition the result set
	b.WriteString(" ORDER BY created_at DESC, id")
	fmt.Fprintf(&b, " LIMIT %d OFFSET %d", q.limit, q.offset)
	return b.String(), q.args
}

func (q *ProductQuery) addWhere(cond string, arg any) {
	q.where = append(q.where, cond)
	q.args = append(q.args, arg)
}

// placeholder numbers the next positional arg; call before appending it.
func (q *ProductQuery) placeholder() string {
	return fmt.Sprintf("$%d", len(q.args)+1)
}

// splitBracket decodes "price[gte]" into ("price", "gte"); plain keys return
// an empty op.
func splitBracket(key string) (field, op string) {
	i := strings.IndexByte(key, '[')
	if i < 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:i], key[i+1 : len(key)-1]
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func parseNumber(s string) (any, error) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err
}

func parseInt(s string) (any, error) {
	v, err := strconv.Atoi(s)
	return v, err
}
