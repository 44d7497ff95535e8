// Package grading maps check metrics to ordinal report card grades.
package grading

import (
	"fmt"
	"strconv"
)

// Grade is an ordinal report card grade, S best and D worst.
type Grade string

const (
	S Grade = "S"
	A Grade = "A"
	B Grade = "B"
	C Grade = "C"
	D Grade = "D"
)

// All lists the grades from best to worst.
var All = []Grade{S, A, B, C, D}

// Rank returns 0 for S through 4 for D, and -1 for an unknown grade.
func (g Grade) Rank() int {
	for i, v := range All {
		if v == g {
			return i
		}
	}
	return -1
}

// Valid reports whether g is one of the known grades.
func (g Grade) Valid() bool {
	return g.Rank() >= 0
}

// Parse converts a grade letter into a Grade.
func Parse(s string) (Grade, error) {
	g := Grade(s)
	if !g.Valid() {
		return "", fmt.Errorf("invalid grade %q (must be one of S, A, B, C, D)", s)
	}
	return g, nil
}

// Worse returns the lower of two grades.
func Worse(a, b Grade) Grade {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Step grades every metric strictly below Below.
type Step struct {
	Below float64
	Grade Grade
}

// Scale is an ordered threshold table. Steps are evaluated in order and the
// first satisfied one wins; a metric that satisfies none gets Otherwise.
// Lower metrics are better.
type Scale struct {
	Steps     []Step
	Otherwise Grade
}

// Classify grades a metric.
func (s Scale) Classify(metric float64) Grade {
	for _, step := range s.Steps {
		if metric < step.Below {
			return step.Grade
		}
	}
	return s.Otherwise
}

// ClassifyCount grades an integer metric.
func (s Scale) ClassifyCount(n int) Grade {
	return s.Classify(float64(n))
}

// Plural returns "n word" with an "s" appended unless n is 1.
func Plural(n int, word string) string {
	if n == 1 {
		return strconv.Itoa(n) + " " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

// Seconds formats a millisecond duration as seconds with two decimals.
func Seconds(ms int64) string {
	return strconv.FormatFloat(float64(ms)/1000, 'f', 2, 64)
}
