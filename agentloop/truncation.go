package agentloop

import (
	"fmt"
	"strings"
)

// TruncationMode specifies how output is truncated.
type TruncationMode string

const (
	TruncateHeadTail TruncationMode = "head_tail"
	TruncateTail     TruncationMode = "tail"
)

// DefaultOutputCharLimit bounds action output fed back to the backend when no
// per-action limit is configured. The event log keeps the full output.
const DefaultOutputCharLimit = 30000

// TruncateOutput applies character-based truncation to output.
func TruncateOutput(output string, maxChars int, mode TruncationMode) string {
	if len(output) <= maxChars {
		return output
	}

	removed := len(output) - maxChars
	switch mode {
	case TruncateTail:
		return fmt.Sprintf("[WARNING: Action output was truncated. First %d characters were removed. "+
			"The full output is available in the event log.]\n\n", removed) +
			output[len(output)-maxChars:]
	default:
		half := maxChars / 2
		return output[:half] +
			fmt.Sprintf("\n\n[WARNING: Action output was truncated. %d characters were removed from the middle. "+
				"The full output is available in the event log.]\n\n", removed) +
			output[len(output)-half:]
	}
}

// TruncateLines applies line-based truncation using a head/tail split.
func TruncateLines(output string, maxLines int) string {
	lines := strings.Split(output, "\n")
	if len(lines) <= maxLines {
		return output
	}

	headCount := maxLines / 2
	tailCount := maxLines - headCount
	omitted := len(lines) - headCount - tailCount

	return strings.Join(lines[:headCount], "\n") +
		fmt.Sprintf("\n[... %d lines omitted ...]\n", omitted) +
		strings.Join(lines[len(lines)-tailCount:], "\n")
}

// TruncateActionOutput applies the full truncation pipeline for an action:
// character-based truncation first, then optional line-based truncation.
func TruncateActionOutput(output string, actionName string, charLimits map[string]int, lineLimits map[string]int) string {
	maxChars, ok := charLimits[actionName]
	if !ok || maxChars <= 0 {
		maxChars = DefaultOutputCharLimit
	}

	result := TruncateOutput(output, maxChars, TruncateHeadTail)

	if maxLines, ok := lineLimits[actionName]; ok && maxLines > 0 {
		result = TruncateLines(result, maxLines)
	}

	return result
}
