package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/grading"
)

const (
	stanceBuff     = config.DefaultStanceBuff
	attunementBuff = config.DefaultAttunementBuff
)

func TestAnalyzeAlignment(t *testing.T) {
	window := encounter.Window{Start: 0, End: 20000}

	tests := []struct {
		name           string
		stance         []encounter.Event
		attunement     []encounter.Event
		wantTotal      int
		wantMisaligned int
	}{
		{
			name:       "fully covered",
			stance:     []encounter.Event{apply(1000), remove(3000)},
			attunement: []encounter.Event{apply(500), remove(4000)},
			wantTotal:  1,
		},
		{
			name:           "never attuned",
			stance:         []encounter.Event{apply(1000), remove(3000), apply(5000), remove(6000)},
			wantTotal:      2,
			wantMisaligned: 2,
		},
		{
			name:           "partly covered below threshold",
			stance:         []encounter.Event{apply(0), remove(1000)},
			attunement:     []encounter.Event{apply(500), remove(1000)},
			wantTotal:      1,
			wantMisaligned: 1,
		},
		{
			name:       "exactly at threshold is aligned",
			stance:     []encounter.Event{apply(0), remove(1000)},
			attunement: []encounter.Event{apply(200), remove(1000)},
			wantTotal:  1,
		},
		{
			name:       "attunement split across two windows",
			stance:     []encounter.Event{apply(0), remove(1000)},
			attunement: []encounter.Event{apply(0), remove(500), apply(500), remove(1000)},
			wantTotal:  1,
		},
		{
			name:       "stance open at encounter end",
			stance:     []encounter.Event{apply(19000)},
			attunement: []encounter.Event{apply(18000)},
			wantTotal:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := AnalyzeAlignment(tt.stance, tt.attunement, window, 0.8)
			if res.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", res.Total, tt.wantTotal)
			}
			if len(res.Misaligned) != tt.wantMisaligned {
				t.Errorf("Misaligned = %+v, want %d", res.Misaligned, tt.wantMisaligned)
			}
			for _, m := range res.Misaligned {
				if m.Coverage < 0 || m.Coverage >= 0.8 {
					t.Errorf("misaligned coverage %v outside [0, 0.8)", m.Coverage)
				}
			}
		})
	}
}

func TestAlignmentCheck_Run(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		name      string
		buffs     map[uint32][]encounter.Event
		wantGrade grading.Grade
		wantText  string
		wantLabel string
	}{
		{
			name: "one of two misaligned",
			buffs: map[uint32][]encounter.Event{
				stanceBuff:     {apply(1000), remove(3000), apply(6000), remove(8000)},
				attunementBuff: {apply(1000), remove(3000), apply(7000), remove(8000)},
			},
			wantGrade: grading.A,
			wantText:  "Misaligned 1/2 Primordial Stance",
			wantLabel: "50%",
		},
		{
			name: "all aligned",
			buffs: map[uint32][]encounter.Event{
				stanceBuff:     {apply(1000), remove(3000)},
				attunementBuff: {apply(0), remove(5000)},
			},
			wantGrade: grading.S,
			wantText:  "Misaligned 0/1 Primordial Stances",
		},
		{
			name: "missing attunement stream is zero coverage",
			buffs: map[uint32][]encounter.Event{
				stanceBuff: {apply(0), remove(1000), apply(2000), remove(3000)},
			},
			wantGrade: grading.B,
			wantText:  "Misaligned 2/2 Primordial Stances",
			wantLabel: "0%",
		},
		{
			name: "label floors the percentage",
			buffs: map[uint32][]encounter.Event{
				stanceBuff:     {apply(0), remove(3000)},
				attunementBuff: {apply(0), remove(1999)},
			},
			wantGrade: grading.A,
			wantText:  "Misaligned 1/1 Primordial Stance",
			wantLabel: "66%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := &encounter.Encounter{Window: encounter.Window{End: 10000}, Buffs: tt.buffs}
			items, err := NewAlignmentCheck(&cfg.Alignment).Run(context.Background(), enc)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			item := items[0]
			if item.Grade != tt.wantGrade {
				t.Errorf("Grade = %s, want %s", item.Grade, tt.wantGrade)
			}
			if item.Explanation != tt.wantText {
				t.Errorf("Explanation = %q, want %q", item.Explanation, tt.wantText)
			}
			if tt.wantLabel != "" && (len(item.Mishaps) == 0 || item.Mishaps[0].Label != tt.wantLabel) {
				t.Errorf("Mishaps = %+v, want first label %q", item.Mishaps, tt.wantLabel)
			}
		})
	}
}

func TestAlignmentCheck_Anomalies(t *testing.T) {
	cfg := config.DefaultConfig()
	enc := &encounter.Encounter{
		Window: encounter.Window{End: 10000},
		Buffs: map[uint32][]encounter.Event{
			stanceBuff:     {apply(1000), remove(2000), remove(2500)},
			attunementBuff: {apply(0), remove(5000)},
		},
	}

	items, err := NewAlignmentCheck(&cfg.Alignment).Run(context.Background(), enc)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	anomalies := items[0].Anomalies
	if len(anomalies) != 1 || anomalies[0].Kind != AnomalyUnmatchedRemove || anomalies[0].Start != 2500 {
		t.Errorf("Anomalies = %+v, want one unmatched remove at 2500", anomalies)
	}
}

func TestAlignmentCheck_MissingStance(t *testing.T) {
	cfg := config.DefaultConfig()
	enc := &encounter.Encounter{
		Buffs: map[uint32][]encounter.Event{attunementBuff: {apply(0)}},
	}

	_, err := NewAlignmentCheck(&cfg.Alignment).Run(context.Background(), enc)
	if !errors.Is(err, ErrMissingStream) {
		t.Errorf("Run() error = %v, want ErrMissingStream", err)
	}
}
