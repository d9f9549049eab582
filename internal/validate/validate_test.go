package validate

import (
	"testing"

	"github.com/mohit83k/bngclients/internal/model"
)

func TestValidIP(t *testing.T) {
	cases := map[string]bool{
		"10.0.0.1":    true,
		"2001:db8::1": true,
		"::1":         true,
		"bad-ip":      false,
		"":            false,
		"10.0.0.256":  false,
		" 10.0.0.1":   false,
	}
	for in, want := range cases {
		if got := ValidIP(in); got != want {
			t.Errorf("ValidIP(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidMAC(t *testing.T) {
	cases := map[string]bool{
		"AA:BB:CC:DD:EE:FF":  true,
		"aa:bb:cc:dd:ee:ff":  true,
		"aA:bB:0c:1D:eE:9f":  true,
		"AA-BB-CC-DD-EE-FF":  false,
		"AA:BB:CC:DD:EE":     false,
		"AA:BB:CC:DD:EE:FF:": false,
		"GG:BB:CC:DD:EE:FF":  false,
		"":                   false,
	}
	for in, want := range cases {
		if got := ValidMAC(in); got != want {
			t.Errorf("ValidMAC(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidVLAN(t *testing.T) {
	cases := map[string]bool{
		"100":  true,
		"4092": true,
		"200":  true,
		"99":   false,
		"4093": false,
		"abc":  false,
		"":     false,
		"-1":   false,
	}
	for in, want := range cases {
		if got := ValidVLAN(in); got != want {
			t.Errorf("ValidVLAN(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidIndex(t *testing.T) {
	cases := map[string]bool{
		"AB":   true,
		" NY ": true,
		" ab ": false,
		"ABC":  false,
		"A":    false,
		"A1":   false,
		"":     false,
	}
	for in, want := range cases {
		if got := ValidIndex(in); got != want {
			t.Errorf("ValidIndex(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRow_CollectsAllErrors(t *testing.T) {
	r := model.Row{Number: 4, Fields: []string{"bad-ip", "zz", "5", "also-bad", "x"}}

	_, rowErr := Row(r)
	if rowErr == nil {
		t.Fatal("expected row error")
	}
	if rowErr.Record != 4 {
		t.Errorf("expected record 4, got %d", rowErr.Record)
	}
	if len(rowErr.Errors) != 5 {
		t.Fatalf("expected 5 field errors, got %v", rowErr.Errors)
	}
	if rowErr.Errors[model.ColVLAN] != ReasonVLAN {
		t.Errorf("unexpected VLAN reason: %q", rowErr.Errors[model.ColVLAN])
	}
	if rowErr.Data[model.ColClientIP] != "bad-ip" {
		t.Errorf("raw data not preserved: %v", rowErr.Data)
	}
}

func TestRow_Valid(t *testing.T) {
	r := model.Row{Number: 1, Fields: []string{"10.0.0.1", "aa:bb:cc:dd:ee:ff", "200", "20.0.0.1", " NY "}}

	rec, rowErr := Row(r)
	if rowErr != nil {
		t.Fatalf("unexpected error: %v", rowErr)
	}
	if rec.MAC != "AA:BB:CC:DD:EE:FF" || rec.VLAN != 200 || rec.RoutingIndex != "NY" {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestBatch_PartitionsInOrder(t *testing.T) {
	rows := []model.Row{
		{Number: 1, Fields: []string{"10.0.0.1", "AA:BB:CC:DD:EE:01", "200", "20.0.0.1", "NY"}},
		{Number: 2, Fields: []string{"bad", "AA:BB:CC:DD:EE:02", "200", "20.0.0.1", "NY"}},
		{Number: 3, Fields: []string{"10.0.0.3", "AA:BB:CC:DD:EE:03", "200", "20.0.0.1", "NY"}},
		{Number: 4, Fields: []string{"10.0.0.4", "AA:BB:CC:DD:EE:04", "1", "20.0.0.1", "NY"}},
		{Number: 5, Fields: []string{"10.0.0.5", "AA:BB:CC:DD:EE:05", "300", "20.0.0.1", "LA"}},
	}

	res := Batch(rows)
	if len(res.Valid) != 3 || len(res.Invalid) != 2 {
		t.Fatalf("expected 3 valid and 2 invalid, got %d and %d", len(res.Valid), len(res.Invalid))
	}
	if res.Invalid[0].Record != 2 || res.Invalid[1].Record != 4 {
		t.Errorf("unexpected invalid rows: %d, %d", res.Invalid[0].Record, res.Invalid[1].Record)
	}
	if res.Valid[2].MAC != "AA:BB:CC:DD:EE:05" {
		t.Errorf("valid rows out of order: %+v", res.Valid)
	}
}
