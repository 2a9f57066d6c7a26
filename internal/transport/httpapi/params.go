package httpapi

import (
	"net/url"
	"strconv"
	"strings"

	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

type query struct {
	values url.Values
	err    error
}

func newQuery(values url.Values) *query {
	return &query{values: values}
}

func (q *query) str(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

// list accepts both repeated keys and comma separated values.
func (q *query) list(key string) []string {
	var out []string
	for _, raw := range q.values[key] {
		out = append(out, splitList(raw)...)
	}
	return out
}

func (q *query) ids(key string) []uint64 {
	raw := q.list(key)
	if len(raw) == 0 {
		return nil
	}
	out := make([]uint64, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			q.fail(key, v)
			continue
		}
		out = append(out, id)
	}
	return out
}

func (q *query) flag(key string) bool {
	raw := q.str(key)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(key, raw)
		return false
	}
	return v
}

func (q *query) number(key string) int {
	raw := q.str(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		q.fail(key, raw)
		return 0
	}
	return v
}

func (q *query) dates(prefix string) ports.DateRange {
	return ports.DateRange{From: q.str(prefix + "_from"), To: q.str(prefix + "_to")}
}

func (q *query) page() ports.Page {
	number := q.number("page")
	if number > ports.MaxPageNumber {
		q.fail("page", q.str("page"))
		number = 0
	}
	return ports.Page{Number: number, Size: q.number("per_page")}
}

// sort reads "field" or "-field"; the dash means descending.
func (q *query) sort() ports.Sort {
	raw := q.str("sort")
	if strings.HasPrefix(raw, "-") {
		return ports.Sort{Field: strings.TrimPrefix(raw, "-"), Desc: true}
	}
	return ports.Sort{Field: raw}
}

func (q *query) fail(key string, value string) {
	if q.err == nil {
		q.err = badParam(key, value)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func badParam(key string, value string) error {
	return errs.Invalid(key, "invalid value %q for %s", value, key)
}
