// Package typing converts raw typed input into the finished measurement the
// engine consumes. Hosts own the keystrokes; the engine only ever sees the
// result produced here.
package typing

import (
	"time"

	"github.com/nathoo/typequest/types"
)

// Measure compares typed text against the target and derives accuracy and
// words per minute over the elapsed duration. Accuracy is position-exact:
// a dropped character misaligns, and costs, the rest of the line. WPM uses
// the standard five-characters-per-word convention.
func Measure(target, typed string, elapsed time.Duration) types.TypingResult {
	targetRunes := []rune(target)
	typedRunes := []rune(typed)

	correct := 0
	for i, r := range typedRunes {
		if i < len(targetRunes) && targetRunes[i] == r {
			correct++
		}
	}

	total := len(targetRunes)
	errors := total - correct
	if len(typedRunes) > total {
		errors += len(typedRunes) - total
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}

	wpm := 0.0
	if minutes := elapsed.Minutes(); minutes > 0 {
		wpm = float64(correct) / 5 / minutes
	}

	return types.TypingResult{
		Accuracy:     accuracy,
		WPM:          wpm,
		Errors:       errors,
		TimeMs:       elapsed.Milliseconds(),
		CorrectChars: correct,
		TotalChars:   total,
	}
}
