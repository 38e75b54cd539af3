package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

func describe(a types.Artifact) string {
	if a.IsCopy() {
		return fmt.Sprintf("%d\tcopy of %d", a.ID, *a.OriginalRef)
	}
	return fmt.Sprintf("%d\toriginal", a.ID)
}

func describeContest(rec types.ContestRecord) string {
	outcome := "defended"
	if rec.ChallengerWon {
		outcome = "won"
	}
	return fmt.Sprintf("%s\toriginal %d\t%s vs %s\tstake %s vs %s\tp=%s draw=%.6f\t%s\tstake after %s",
		rec.ContestID, rec.OriginalID, rec.Challenger, rec.Defender,
		rec.ChallengerStake, rec.DefenderStake, rec.WinProbability.StringFixed(6), rec.Draw,
		outcome, rec.StakeAfter)
}
