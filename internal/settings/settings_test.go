package settings

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	m := Defaults()

	if got := m["NB_THREADS"].String(); got != "2" {
		t.Errorf("NB_THREADS: expected 2, got %s", got)
	}
	if got := m["SPARSE_SOLVER"].String(); got != "KLU" {
		t.Errorf("SPARSE_SOLVER: expected KLU, got %s", got)
	}
	if _, ok := m["LATENCY"]; ok {
		t.Error("LATENCY should have no default")
	}
}

func TestMergeSettings(t *testing.T) {
	m := Defaults()
	prev := m["SPARSE_SOLVER"].String()

	err := m.MergeSettings(Map{
		"NB_THREADS": Scalar(8),
		"LATENCY":    Tuple{0.5, 1},
	})
	if err != nil {
		t.Fatalf("merge failed: %v", err)
	}

	if got := m["NB_THREADS"].String(); got != "8" {
		t.Errorf("NB_THREADS not overwritten: %s", got)
	}
	if got := m["LATENCY"].String(); got != "0.5 1" {
		t.Errorf("LATENCY: got %s", got)
	}
	if got := m["SPARSE_SOLVER"].String(); got != prev {
		t.Errorf("unrelated key changed: %s", got)
	}
}

func TestMergeSettingsUnknownKey(t *testing.T) {
	m := Defaults()

	err := m.MergeSettings(Map{
		"NB_THREADS": Scalar(8),
		"BOGUS":      Token("T"),
	})
	if !errors.Is(err, ErrUnknownSetting) {
		t.Fatalf("expected ErrUnknownSetting, got %v", err)
	}

	// The merge is all-or-nothing: the known key must not have landed.
	if got := m["NB_THREADS"].String(); got != "2" {
		t.Errorf("map changed despite failed merge: NB_THREADS=%s", got)
	}
}

func TestMergeSolver(t *testing.T) {
	m := SolverDefaults()

	if err := m.MergeSolver(Map{"disc_method": Token("TR")}); err != nil {
		t.Fatalf("merge failed: %v", err)
	}
	if got := m["disc_method"].String(); got != "TR" {
		t.Errorf("disc_method: got %s", got)
	}

	if err := m.MergeSolver(Map{"NB_THREADS": Scalar(2)}); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("engine setting accepted as solver setting: %v", err)
	}
}

func TestValueFormatting(t *testing.T) {
	tests := []struct {
		name string
		val  Value
		want string
	}{
		{"small scalar", Scalar(0.00001), "0.00001"},
		{"integer scalar", Scalar(100), "100"},
		{"millis scalar", Scalar(0.001), "0.001"},
		{"large scalar", Scalar(1e7), "10000000"},
		{"tuple", Tuple{0.001, 0.001, 0.0001}, "0.001 0.001 0.0001"},
		{"token", Token("COI"), "COI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.val.String()
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if strings.ContainsAny(got, "eE") && tt.name != "token" {
				t.Errorf("scientific notation leaked into %q", got)
			}
		})
	}
}

func TestScalarRoundTrip(t *testing.T) {
	for _, v := range []float64{0.00001, 0.001, 0.02, 1, 100, 12345.6789, 1e-7} {
		s := Scalar(v).String()
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatalf("reparse %q: %v", s, err)
		}
		if parsed != v {
			t.Errorf("round trip lost precision: %v -> %q -> %v", v, s, parsed)
		}
	}
}
