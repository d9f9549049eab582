package model

import "time"

// Retention is how long a client record stays visible after its last upsert.
const Retention = 600 * time.Second

// Column names as they appear in uploads, validation reports and exports.
const (
	ColClientIP  = "CL_IP"
	ColMAC       = "MAC"
	ColVLAN      = "VLAN"
	ColGatewayIP = "BNG_IP"
	ColIndex     = "INDEX"
)

// Columns is the fixed positional layout of an uploaded row.
var Columns = []string{ColClientIP, ColMAC, ColVLAN, ColGatewayIP, ColIndex}

// ClientRecord represents one validated client-to-gateway mapping, keyed by MAC.
type ClientRecord struct {
	ClientIP     string    `json:"CL_IP"`
	MAC          string    `json:"MAC"`
	VLAN         int       `json:"VLAN"`
	GatewayIP    string    `json:"BNG_IP"`
	RoutingIndex string    `json:"INDEX"`
	CreatedAt    time.Time `json:"-"`
}

// Field returns the value of the named column and whether the record carries it.
func (r ClientRecord) Field(col string) (any, bool) {
	switch col {
	case ColClientIP:
		return r.ClientIP, r.ClientIP != ""
	case ColMAC:
		return r.MAC, r.MAC != ""
	case ColVLAN:
		return r.VLAN, r.VLAN != 0
	case ColGatewayIP:
		return r.GatewayIP, r.GatewayIP != ""
	case ColIndex:
		return r.RoutingIndex, r.RoutingIndex != ""
	}
	return nil, false
}

// Expired reports whether the record fell out of the retention window at now.
func (r ClientRecord) Expired(now time.Time) bool {
	return now.Sub(r.CreatedAt) >= Retention
}

// Row is one raw uploaded line, fields in Columns order.
type Row struct {
	Number int // 1-based position in the upload
	Fields []string
}

// Value returns the raw value of the named column, or "" if absent.
func (r Row) Value(col string) string {
	for i, c := range Columns {
		if c == col && i < len(r.Fields) {
			return r.Fields[i]
		}
	}
	return ""
}

// Map returns the raw row keyed by column name.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(Columns))
	for i, c := range Columns {
		if i < len(r.Fields) {
			m[c] = r.Fields[i]
		}
	}
	return m
}
