// Package gatewaymap loads the gateway IP to routing index table used by the
// RADIUS feed, e.g.
//
//	gateways:
//	  20.0.0.1: NY
//	  20.0.0.2: LA
package gatewaymap

import (
	"fmt"
	"net/netip"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mohit83k/bngclients/internal/validate"
)

// Map resolves a gateway IP to its routing index.
type Map struct {
	byAddr map[netip.Addr]string
}

type file struct {
	Gateways map[string]string `yaml:"gateways"`
}

// Load reads a YAML gateway map from path.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway map: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML gateway map. Every entry must be an IP and a valid index.
func Parse(data []byte) (*Map, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse gateway map: %w", err)
	}

	m := &Map{byAddr: make(map[netip.Addr]string, len(f.Gateways))}
	for ip, index := range f.Gateways {
		addr, err := netip.ParseAddr(ip)
		if err != nil {
			return nil, fmt.Errorf("gateway map: bad gateway %q: %w", ip, err)
		}
		if !validate.ValidIndex(index) {
			return nil, fmt.Errorf("gateway map: bad index %q for %s", index, ip)
		}
		m.byAddr[addr] = strings.TrimSpace(index)
	}
	return m, nil
}

// Lookup returns the routing index for gateway ip. A nil Map has no entries.
func (m *Map) Lookup(ip string) (string, bool) {
	if m == nil {
		return "", false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "", false
	}
	index, ok := m.byAddr[addr]
	return index, ok
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byAddr)
}
