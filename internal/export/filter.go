package export

import (
	"strings"

	"github.com/mohit83k/bngclients/internal/model"
)

// Filter restricts an export by routing index and/or gateway IP.
// The zero Filter matches every record.
type Filter struct {
	indexes  []string
	gateways []string
}

// BuildFilter turns the optional index and gateway query values into a Filter.
// A nil pointer means the parameter was not given. "all" in either parameter,
// any case, clears both restrictions.
func BuildFilter(index, gateway *string) Filter {
	if isAll(index) || isAll(gateway) {
		return Filter{}
	}
	var f Filter
	if index != nil {
		f.indexes = splitValues(*index)
	}
	if gateway != nil {
		f.gateways = splitValues(*gateway)
	}
	return f
}

// Empty reports whether the filter matches everything.
func (f Filter) Empty() bool {
	return len(f.indexes) == 0 && len(f.gateways) == 0
}

// Match is the store-side predicate: membership in every requested set.
func (f Filter) Match(rec model.ClientRecord) bool {
	if len(f.indexes) > 0 && !contains(f.indexes, rec.RoutingIndex) {
		return false
	}
	if len(f.gateways) > 0 && !contains(f.gateways, rec.GatewayIP) {
		return false
	}
	return true
}

// Describe renders the filter for use in a download filename.
func (f Filter) Describe() string {
	if f.Empty() {
		return "all"
	}
	var parts []string
	if len(f.indexes) > 0 {
		parts = append(parts, "index_"+strings.Join(f.indexes, "_"))
	}
	if len(f.gateways) > 0 {
		parts = append(parts, "bng_ip_"+strings.Join(f.gateways, "_"))
	}
	return sanitize(strings.Join(parts, "_"))
}

func isAll(v *string) bool {
	return v != nil && strings.EqualFold(strings.TrimSpace(*v), "all")
}

func splitValues(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			return r
		}
		return '-'
	}, s)
}
