package export

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mohit83k/bngclients/internal/model"
	"github.com/mohit83k/bngclients/internal/redisclient"
)

type mockScanner struct {
	records []model.ClientRecord
	err     error
}

func (m *mockScanner) Scan(_ context.Context, f redisclient.Filter) ([]model.ClientRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.ClientRecord
	for _, rec := range m.records {
		if f == nil || f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func strp(s string) *string { return &s }

var stored = []model.ClientRecord{
	{ClientIP: "10.0.0.1", MAC: "AA:BB:CC:DD:EE:01", VLAN: 200, GatewayIP: "20.0.0.1", RoutingIndex: "AA"},
	{ClientIP: "10.0.0.2", MAC: "AA:BB:CC:DD:EE:02", VLAN: 300, GatewayIP: "20.0.0.2", RoutingIndex: "BB"},
	{ClientIP: "10.0.0.3", MAC: "AA:BB:CC:DD:EE:03", VLAN: 400, GatewayIP: "20.0.0.1", RoutingIndex: "BB"},
}

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name     string
		index    *string
		gateway  *string
		wantMACs []string
		describe string
	}{
		{"absent", nil, nil, []string{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:02", "AA:BB:CC:DD:EE:03"}, "all"},
		{"index", strp("AA"), nil, []string{"AA:BB:CC:DD:EE:01"}, "index_AA"},
		{"index list", strp("AA,BB"), nil, []string{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:02", "AA:BB:CC:DD:EE:03"}, "index_AA_BB"},
		{"gateway", nil, strp("20.0.0.1"), []string{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:03"}, "bng_ip_20.0.0.1"},
		{"both anded", strp("BB"), strp("20.0.0.1"), []string{"AA:BB:CC:DD:EE:03"}, "index_BB_bng_ip_20.0.0.1"},
		{"all overrides", strp("AA"), strp("ALL"), []string{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:02", "AA:BB:CC:DD:EE:03"}, "all"},
		{"index all", strp("All"), nil, []string{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:02", "AA:BB:CC:DD:EE:03"}, "all"},
		{"no match", strp("ZZ"), nil, nil, "index_ZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := BuildFilter(tt.index, tt.gateway)
			var got []string
			for _, rec := range stored {
				if f.Match(rec) {
					got = append(got, rec.MAC)
				}
			}
			if len(got) != len(tt.wantMACs) {
				t.Fatalf("got %v, want %v", got, tt.wantMACs)
			}
			for i := range got {
				if got[i] != tt.wantMACs[i] {
					t.Errorf("got %v, want %v", got, tt.wantMACs)
				}
			}
			if d := f.Describe(); d != tt.describe {
				t.Errorf("Describe() = %q, want %q", d, tt.describe)
			}
		})
	}
}

func TestParseRoleAndFormat(t *testing.T) {
	if r, err := ParseRole("EDGE"); err != nil || r != RoleEdge {
		t.Errorf("ParseRole(EDGE) = %v, %v", r, err)
	}
	if _, err := ParseRole("root"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := ParseRole(""); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole for missing role, got %v", err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatCSV {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestExport_EdgeCSV(t *testing.T) {
	s := NewService(&mockScanner{records: stored[:1]})

	res, err := s.Export(context.Background(), Query{Role: RoleEdge, Format: FormatCSV, Filter: BuildFilter(strp("all"), nil)})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(res.Body) != "10.0.0.1\tAA:BB:CC:DD:EE:01\t200\n" {
		t.Errorf("unexpected body %q", res.Body)
	}
	if res.ContentType != "text/csv" || res.Filename != "data_all.csv" {
		t.Errorf("unexpected headers: %s %s", res.ContentType, res.Filename)
	}
}

func TestExport_AdminCSVColumnOrder(t *testing.T) {
	s := NewService(&mockScanner{records: stored[:1]})

	res, err := s.Export(context.Background(), Query{Role: RoleAdmin, Format: FormatCSV})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(res.Body) != "10.0.0.1\tAA:BB:CC:DD:EE:01\t200\tAA\t20.0.0.1\n" {
		t.Errorf("unexpected body %q", res.Body)
	}
}

func TestExport_EdgeJSONKeys(t *testing.T) {
	s := NewService(&mockScanner{records: stored})

	res, err := s.Export(context.Background(), Query{Role: RoleEdge, Format: FormatJSON, Filter: BuildFilter(strp("BB"), nil)})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.ContentType != "application/json" || res.Filename != "data_index_BB.json" {
		t.Errorf("unexpected headers: %s %s", res.ContentType, res.Filename)
	}

	var objs []map[string]any
	if err := json.Unmarshal(res.Body, &objs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objs))
	}
	for _, o := range objs {
		if len(o) != 3 || o["client_ip"] == nil || o["mac"] == nil || o["vlan"] == nil {
			t.Errorf("unexpected keys: %v", o)
		}
	}

	want := `[{"client_ip":"10.0.0.2","mac":"AA:BB:CC:DD:EE:02","vlan":300},{"client_ip":"10.0.0.3","mac":"AA:BB:CC:DD:EE:03","vlan":400}]` + "\n"
	if string(res.Body) != want {
		t.Errorf("got %s, want %s", res.Body, want)
	}
}

func TestExport_NoContent(t *testing.T) {
	s := NewService(&mockScanner{records: stored})

	_, err := s.Export(context.Background(), Query{Role: RoleEdge, Format: FormatCSV, Filter: BuildFilter(strp("ZZ"), nil)})
	if !errors.Is(err, model.ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got: %v", err)
	}
}

func TestExport_StorageError(t *testing.T) {
	s := NewService(&mockScanner{err: errors.New("redis is down")})

	_, err := s.Export(context.Background(), Query{Role: RoleEdge, Format: FormatCSV})
	if !model.IsKind(err, model.KindStorage) {
		t.Fatalf("expected storage_error, got: %v", err)
	}
}

func TestProject_OmitsMissingColumns(t *testing.T) {
	rows := Project([]model.ClientRecord{{ClientIP: "10.0.0.1", MAC: "AA:BB:CC:DD:EE:01", VLAN: 200}}, RoleAdmin)
	if len(rows[0]) != 3 {
		t.Errorf("expected missing INDEX and BNG_IP to be omitted, got %v", rows[0])
	}
}
