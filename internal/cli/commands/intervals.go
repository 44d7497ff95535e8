package commands

import (
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/moxie-gw2/moxie/pkg/encounter"
	"github.com/moxie-gw2/moxie/pkg/interval"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IntervalsOptions holds command-line options for the intervals command.
type IntervalsOptions struct {
	Buffs []uint
}

// BuffIntervals is the reconstruction of one buff stream.
type BuffIntervals struct {
	Buff             uint32               `json:"buff"`
	Name             string               `json:"name"`
	Intervals        []encounter.Interval `json:"intervals"`
	Total            int64                `json:"total"`
	Negative         []encounter.Interval `json:"negative,omitempty"`
	DiscardedRemoves int                  `json:"discarded_removes"`
}

// NewIntervalsCommand creates the intervals command.
func NewIntervalsCommand() *cobra.Command {
	opts := &IntervalsOptions{}

	cmd := &cobra.Command{
		Use:   "intervals <encounter-file>",
		Short: "Print the active windows of buff streams",
		Long: `Reconstruct the active windows of each buff stream and print them as JSON.

Windows still open at the end of the encounter are closed at its end. Use
--buff to limit the output to specific buff ids.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntervals(cmd, args, opts)
		},
	}

	cmd.Flags().UintSliceVar(&opts.Buffs, "buff", nil, "Buff id to reconstruct (can be repeated)")

	return cmd
}

func runIntervals(cmd *cobra.Command, args []string, opts *IntervalsOptions) error {
	enc, err := encounter.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading encounter: %w", err)
	}

	ids, err := selectBuffs(enc, opts.Buffs)
	if err != nil {
		return err
	}

	results := make([]BuffIntervals, 0, len(ids))
	for _, id := range ids {
		events, ok := enc.Stream(id)
		if !ok {
			return fmt.Errorf("buff %d not present in encounter", id)
		}
		res := interval.Reconstruct(events, enc.Window)
		if res.Intervals == nil {
			res.Intervals = []encounter.Interval{}
		}
		results = append(results, BuffIntervals{
			Buff:             id,
			Name:             enc.Name(id),
			Intervals:        res.Intervals,
			Total:            interval.Total(res.Intervals),
			Negative:         res.Negative,
			DiscardedRemoves: res.DiscardedRemoves,
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// selectBuffs returns the requested buff ids, or every buff in the
// encounter when none are requested.
func selectBuffs(enc *encounter.Encounter, buffs []uint) ([]uint32, error) {
	if len(buffs) == 0 {
		return enc.BuffIDs(), nil
	}
	ids := make([]uint32, 0, len(buffs))
	for _, b := range buffs {
		if b > math.MaxUint32 {
			return nil, fmt.Errorf("buff id %d out of range", b)
		}
		ids = append(ids, uint32(b))
	}
	return ids, nil
}
