package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mohit83k/bngclients/internal/model"
	"github.com/mohit83k/bngclients/internal/tabular"
)

var (
	ErrInvalidRole   = errors.New("client must be one of: admin, edge")
	ErrInvalidFormat = errors.New("export must be one of: csv, json")
)

// Role selects which columns a caller receives.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleEdge  Role = "edge"
)

// column maps an output key to a record column.
type column struct {
	Key string
	Col string
}

var roleColumns = map[Role][]column{
	RoleEdge: {
		{"client_ip", model.ColClientIP},
		{"mac", model.ColMAC},
		{"vlan", model.ColVLAN},
	},
	RoleAdmin: {
		{"client_ip", model.ColClientIP},
		{"mac", model.ColMAC},
		{"vlan", model.ColVLAN},
		{"routing_index", model.ColIndex},
		{"gateway_ip", model.ColGatewayIP},
	},
}

// ParseRole accepts admin or edge in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleColumns[r]; !ok {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Format is the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts csv or json in any case; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", ErrInvalidFormat
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Row is one projected record: its columns in role order.
// Columns the record does not carry are left out.
type Row []Cell

// Cell is one projected value.
type Cell struct {
	Key   string
	Value any
}

// MarshalJSON writes the row as an object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Project applies the role's column subset to every record.
func Project(records []model.ClientRecord, role Role) []Row {
	cols := roleColumns[role]
	out := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, 0, len(cols))
		for _, c := range cols {
			if v, ok := rec.Field(c.Col); ok {
				row = append(row, Cell{Key: c.Key, Value: v})
			}
		}
		out = append(out, row)
	}
	return out
}

// Encode writes rows to w in format f.
func Encode(w io.Writer, rows []Row, f Format) error {
	if f == FormatJSON {
		return json.NewEncoder(w).Encode(rows)
	}

	tw := tabular.NewWriter(w)
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, c := range row {
			fields[i] = cellString(c.Value)
		}
		if err := tw.Write(fields); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	return tw.Flush()
}

func cellString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	}
	return fmt.Sprint(v)
}
