package grading

// Threshold tables for the built-in checks.
var (
	// ChainScale grades the number of chains abandoned one step short.
	ChainScale = Scale{
		Steps:     []Step{{1, S}, {2, A}, {5, B}},
		Otherwise: C,
	}

	// DeadspaceScale grades idle milliseconds between casts.
	DeadspaceScale = Scale{
		Steps:     []Step{{5000, S}, {10000, A}},
		Otherwise: B,
	}

	// CancelScale grades milliseconds spent in canceled casts.
	CancelScale = Scale{
		Steps:     []Step{{5000, S}, {10000, A}},
		Otherwise: B,
	}

	// AlignmentScale grades the number of poorly covered stances.
	AlignmentScale = Scale{
		Steps:     []Step{{1, S}, {2, A}, {4, B}, {6, C}},
		Otherwise: D,
	}

	// UptimeScale grades dropped buff time. It is applied to dropped seconds
	// and again to the dropped share of the encounter in percent, and the
	// worse grade wins. In fights shorter than 100 seconds the share is the
	// larger number, so it sets a stricter grade than the seconds alone.
	UptimeScale = Scale{
		Steps:     []Step{{1, S}, {3, A}, {8, B}, {15, C}},
		Otherwise: D,
	}
)
