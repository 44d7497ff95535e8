package encounter

import "fmt"

// Normalize reorders same-instant transitions in every buff stream: a Remove
// logged at the same time as the Apply just before it ended the previous
// stack, so it is moved in front of that Apply. Normalize modifies e in place
// and is meant for freshly decoded encounters only.
func Normalize(e *Encounter) {
	for _, events := range e.Buffs {
		for i := 1; i < len(events); i++ {
			prev, cur := events[i-1], events[i]
			if prev.Kind == Apply && cur.Kind == Remove && prev.Time == cur.Time {
				events[i-1], events[i] = cur, prev
			}
		}
	}
}

// Severity grades a validation problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is a single finding from Validate.
type Problem struct {
	Severity Severity
	Message  string
}

// Validate checks the structural expectations the analyzers rely on.
// Errors describe input the analyzers cannot interpret correctly; warnings
// describe input they tolerate.
func Validate(e *Encounter) []Problem {
	var problems []Problem

	if e.Window.End < e.Window.Start {
		problems = append(problems, Problem{
			Severity: SeverityError,
			Message:  fmt.Sprintf("encounter window ends (%d) before it starts (%d)", e.Window.End, e.Window.Start),
		})
	}

	for _, id := range e.BuffIDs() {
		events := e.Buffs[id]
		for i := 1; i < len(events); i++ {
			if events[i].Time < events[i-1].Time {
				problems = append(problems, Problem{
					Severity: SeverityError,
					Message: fmt.Sprintf("buff %d: event %d at %d is earlier than event %d at %d",
						id, i, events[i].Time, i-1, events[i-1].Time),
				})
				break
			}
		}
	}

	unsorted := false
	missing := make(map[uint32]bool)
	for i, c := range e.Casts {
		if c.End < c.Start {
			problems = append(problems, Problem{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("cast %d (skill %d) ends at %d before it starts at %d", i, c.SkillID, c.End, c.Start),
			})
		}
		if i > 0 && c.Start < e.Casts[i-1].Start {
			unsorted = true
		}
		if _, ok := e.Skills[c.SkillID]; !ok {
			missing[c.SkillID] = true
		}
	}

	if unsorted {
		problems = append(problems, Problem{
			Severity: SeverityWarning,
			Message:  "casts are not ordered by start time; they will be sorted before analysis",
		})
	}
	if len(missing) > 0 && len(e.Skills) > 0 {
		problems = append(problems, Problem{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d cast skill(s) have no metadata and are excluded from chain analysis", len(missing)),
		})
	}

	return problems
}

// HasErrors reports whether any problem is an error.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}
