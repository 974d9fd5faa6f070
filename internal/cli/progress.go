package cli

import (
	"fmt"
	"strings"
)

// ─── Progress Bar ───────────────────────────────────────────────────────────
// Static terminal bar for level and goal progress:
// [████████████░░░░░░░░░░░░░░░░░░] 42%

const barWidth = 30 // Characters for the progress bar

// renderBar draws a fraction in [0, 1]; values outside are clamped.
func renderBar(fraction float64) string {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * barWidth)
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", barWidth-filled),
		fraction*100,
	)
}
