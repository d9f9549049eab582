package validate

import (
	"fmt"
	"strings"

	"github.com/mohit83k/bngclients/internal/model"
)

// Reasons reported per failing column.
const (
	ReasonIP    = "Invalid IP address."
	ReasonMAC   = "Invalid MAC address."
	ReasonVLAN  = "Wrong VLAN. Should be 100 - 4092."
	ReasonIndex = "Wrong Index."
)

// RowError lists every failing field of one rejected row.
type RowError struct {
	Record int               `json:"record"`
	Data   map[string]string `json:"data"`
	Errors map[string]string `json:"errors"`
	Raw    []string          `json:"-"`
}

func (e *RowError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for _, col := range model.Columns {
		if reason, ok := e.Errors[col]; ok {
			fields = append(fields, col+": "+reason)
		}
	}
	return fmt.Sprintf("row %d: %s", e.Record, strings.Join(fields, "; "))
}

// Row validates all five fields of r and never stops at the first failure.
func Row(r model.Row) (model.ClientRecord, *RowError) {
	errs := make(map[string]string)

	clientIP := r.Value(model.ColClientIP)
	if !ValidIP(clientIP) {
		errs[model.ColClientIP] = ReasonIP
	}
	mac := r.Value(model.ColMAC)
	if !ValidMAC(mac) {
		errs[model.ColMAC] = ReasonMAC
	}
	vlan, ok := parseVLAN(r.Value(model.ColVLAN))
	if !ok {
		errs[model.ColVLAN] = ReasonVLAN
	}
	gatewayIP := r.Value(model.ColGatewayIP)
	if !ValidIP(gatewayIP) {
		errs[model.ColGatewayIP] = ReasonIP
	}
	index := r.Value(model.ColIndex)
	if !ValidIndex(index) {
		errs[model.ColIndex] = ReasonIndex
	}

	if len(errs) > 0 {
		return model.ClientRecord{}, &RowError{
			Record: r.Number,
			Data:   r.Map(),
			Errors: errs,
			Raw:    r.Fields,
		}
	}

	return model.ClientRecord{
		ClientIP:     clientIP,
		MAC:          CanonicalMAC(mac),
		VLAN:         vlan,
		GatewayIP:    gatewayIP,
		RoutingIndex: strings.TrimSpace(index),
	}, nil
}

// Result partitions a batch into clean records and rejected rows, both in input order.
type Result struct {
	Valid   []model.ClientRecord
	Invalid []RowError
}

// Batch validates every row of an upload.
func Batch(rows []model.Row) Result {
	var res Result
	for _, r := range rows {
		rec, rowErr := Row(r)
		if rowErr != nil {
			res.Invalid = append(res.Invalid, *rowErr)
			continue
		}
		res.Valid = append(res.Valid, rec)
	}
	return res
}
