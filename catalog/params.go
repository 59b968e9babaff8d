package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseQuery reads catalog options from request query parameters. Unparseable
// numbers fall back to their defaults; an explicit limit below 1 becomes 1.
// force reports whether the caller asked to bypass every cache layer.
func ParseQuery(q url.Values) (opts Options, force bool) {
	opts = Options{
		Category:  q.Get("category"),
		Condition: q.Get("condition"),
		Search:    q.Get("search"),
	}
	if opts.Search == "" {
		opts.Search = q.Get("q")
	}

	if q.Has("limit") {
		if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
			opts.Limit = max(limit, 1)
		}
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		opts.Offset = offset
	}
	if featured, ok := ParseBool(q.Get("featured")); ok {
		opts.Featured = &featured
	}

	force, _ = ParseBool(q.Get("force"))
	return opts.Normalize(), force
}

// ParseBool accepts 1/0, true/false and yes/no in any case.
func ParseBool(raw string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	default:
		return false, false
	}
}
