package ui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"atc-ground/internal/game/radio"
	"atc-ground/internal/game/traffic"
	"atc-ground/pkg/types"
)

// WriteBoard prints the ground traffic of one airport and the most recent
// radio calls as a text table.
func WriteBoard(w io.Writer, airport string, recs []traffic.Status, msgs []radio.Message, maxMsgs int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s ground, %d aircraft\n", airport, len(recs))
	fmt.Fprintln(tw, "CALLSIGN\tLEG\tSEG\tSPD\tHDG\tHOLD\tLIMIT\tWAITS\tSTS")
	for _, r := range recs {
		limit := "-"
		if r.Instruction.ChangeSpeed {
			limit = fmt.Sprintf("%.0f", r.Instruction.Speed)
		}
		waits := "-"
		if r.WaitsForID != types.NoAircraft {
			waits = fmt.Sprintf("%d", r.WaitsForID)
		}
		hold := ""
		if r.Instruction.HoldPosition {
			hold = "HOLD"
		}
		if r.Instruction.ResolveCircularWait {
			hold += " CYCLE"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.0f\t%03.0f\t%s\t%s\t%s\t%s\n",
			r.Callsign, r.Leg, r.CurrentPosition, r.Speed, r.Heading, hold, limit, waits, r.State)
	}

	if len(msgs) > maxMsgs {
		msgs = msgs[len(msgs)-maxMsgs:]
	}
	for _, m := range msgs {
		urgent := ""
		if m.IsUrgent {
			urgent = "!"
		}
		fmt.Fprintf(tw, "%s\t%s%s\n", m.Timestamp.Format("15:04:05"), urgent, m.Text)
	}
	return tw.Flush()
}
