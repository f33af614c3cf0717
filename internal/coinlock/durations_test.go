package coinlock

import (
	"errors"
	"testing"
)

func TestDurations(t *testing.T) {
	if len(Durations) != 7 {
		t.Fatalf("%d duration options, want 7", len(Durations))
	}
	d := DefaultDuration()
	if d.Key != "30mins" || d.Ms != 1_800_000 {
		t.Errorf("default = %+v", d)
	}
	last := Durations[len(Durations)-1]
	if last.Key != "1day" || last.Ms != 86_400_000 || last.Label != "1 day" {
		t.Errorf("last = %+v", last)
	}
	for i := 1; i < len(Durations); i++ {
		if Durations[i].Ms <= Durations[i-1].Ms {
			t.Errorf("options not ascending at %s", Durations[i].Key)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in    string
		key   string
		ms    uint64
		label string
	}{
		{"12hrs", "12hrs", 43_200_000, "12 hours"},
		{"1h", "1hr", 3_600_000, "1 hour"},
		{"24h", "1day", 86_400_000, "1 day"},
		{"90m", "90m", 5_400_000, "2 hours"},
		{"45s", "45s", 45_000, "1 minute"},
	}
	for _, tt := range tests {
		d, err := ParseDuration(tt.in)
		if err != nil {
			t.Errorf("ParseDuration(%q) error: %v", tt.in, err)
			continue
		}
		if d.Key != tt.key || d.Ms != tt.ms || d.Label != tt.label {
			t.Errorf("ParseDuration(%q) = %+v", tt.in, d)
		}
	}
}

func TestParseDuration_Errors(t *testing.T) {
	if _, err := ParseDuration(""); !errors.Is(err, ErrDurationRequired) {
		t.Errorf("empty: %v", err)
	}
	for _, in := range []string{"forever", "-1h", "0s", "1.5ms"} {
		if _, err := ParseDuration(in); err == nil {
			t.Errorf("ParseDuration(%q) should fail", in)
		}
	}
}
