package grading

import "testing"

func TestParse(t *testing.T) {
	for _, g := range All {
		got, err := Parse(string(g))
		if err != nil || got != g {
			t.Errorf("Parse(%q) = %q, %v", g, got, err)
		}
	}
	for _, bad := range []string{"", "E", "s", "SS"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) expected error", bad)
		}
	}
}

func TestWorse(t *testing.T) {
	tests := []struct {
		a, b, want Grade
	}{
		{S, S, S},
		{S, D, D},
		{D, S, D},
		{A, B, B},
		{C, B, C},
	}

	for _, tt := range tests {
		if got := Worse(tt.a, tt.b); got != tt.want {
			t.Errorf("Worse(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestScales(t *testing.T) {
	tests := []struct {
		name   string
		scale  Scale
		metric float64
		want   Grade
	}{
		{"chain none", ChainScale, 0, S},
		{"chain one", ChainScale, 1, A},
		{"chain four", ChainScale, 4, B},
		{"chain five", ChainScale, 5, C},
		{"deadspace under 5s", DeadspaceScale, 4999, S},
		{"deadspace 5s", DeadspaceScale, 5000, A},
		{"deadspace 10s", DeadspaceScale, 10000, B},
		{"cancel half second", CancelScale, 500, S},
		{"alignment none", AlignmentScale, 0, S},
		{"alignment one", AlignmentScale, 1, A},
		{"alignment three", AlignmentScale, 3, B},
		{"alignment five", AlignmentScale, 5, C},
		{"alignment six", AlignmentScale, 6, D},
		{"uptime 0.5s", UptimeScale, 0.5, S},
		{"uptime 2s", UptimeScale, 2, A},
		{"uptime 7s", UptimeScale, 7, B},
		{"uptime 8s", UptimeScale, 8, C},
		{"uptime 15s", UptimeScale, 15, D},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scale.Classify(tt.metric); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.metric, got, tt.want)
			}
		})
	}
}

func TestScales_Monotonic(t *testing.T) {
	scales := map[string]Scale{
		"chain":     ChainScale,
		"deadspace": DeadspaceScale,
		"cancel":    CancelScale,
		"alignment": AlignmentScale,
		"uptime":    UptimeScale,
	}

	for name, scale := range scales {
		prev := S
		for m := 0.0; m <= 20000; m += 0.5 {
			g := scale.Classify(m)
			if g.Rank() < prev.Rank() {
				t.Errorf("%s: grade improved from %s to %s at %v", name, prev, g, m)
				break
			}
			prev = g
		}
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 auto chain finishers"},
		{1, "1 auto chain finisher"},
		{2, "2 auto chain finishers"},
	}

	for _, tt := range tests {
		if got := Plural(tt.n, "auto chain finisher"); got != tt.want {
			t.Errorf("Plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0.00"},
		{500, "0.50"},
		{7000, "7.00"},
		{1234, "1.23"},
	}

	for _, tt := range tests {
		if got := Seconds(tt.ms); got != tt.want {
			t.Errorf("Seconds(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
