package agentloop

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/martinemde/runloop/llm"
)

// actionSignature computes a deterministic signature for an action request
// (name + hash of arguments).
func actionSignature(name string, arguments json.RawMessage) string {
	h := sha256.Sum256(arguments)
	return fmt.Sprintf("%s:%x", name, h[:8])
}

// recentSignatures extracts signatures from the most recent action requests
// in the history, oldest first.
func recentSignatures(history []llm.Message, count int) []string {
	var sigs []string
	for i := len(history) - 1; i >= 0 && len(sigs) < count; i-- {
		msg := history[i]
		if msg.Role != llm.RoleAssistant {
			continue
		}
		for j := len(msg.ActionRequests) - 1; j >= 0 && len(sigs) < count; j-- {
			req := msg.ActionRequests[j]
			sigs = append(sigs, actionSignature(req.Name, req.Arguments))
		}
	}
	for i, j := 0, len(sigs)-1; i < j; i, j = i+1, j-1 {
		sigs[i], sigs[j] = sigs[j], sigs[i]
	}
	return sigs
}

// DetectLoop checks if the last windowSize action requests follow a
// repeating pattern of length 1, 2, or 3.
func DetectLoop(history []llm.Message, windowSize int) bool {
	sigs := recentSignatures(history, windowSize)
	if len(sigs) < windowSize {
		return false
	}

	for patternLen := 1; patternLen <= 3; patternLen++ {
		if windowSize%patternLen != 0 {
			continue
		}
		pattern := sigs[:patternLen]
		allMatch := true
		for i := patternLen; i < windowSize; i += patternLen {
			for j := 0; j < patternLen; j++ {
				if sigs[i+j] != pattern[j] {
					allMatch = false
					break
				}
			}
			if !allMatch {
				break
			}
		}
		if allMatch {
			return true
		}
	}

	return false
}
