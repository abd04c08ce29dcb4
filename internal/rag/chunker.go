package rag

import "strings"

// SplitChunks splits normalized document text into at most maxChunks
// non-overlapping chunks of at most limit characters each. A chunk other
// than the last is shortened to end at the last period found at or after
// the 70%-of-limit mark, when one exists; shortening never moves the next
// window, so dropped tails are never duplicated into a later chunk.
func SplitChunks(text string, limit, maxChunks int) []string {
	if limit <= 0 || maxChunks <= 0 {
		return nil
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	boundary := (limit * 7) / 10

	var chunks []string
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		window := runes[start:end]

		// Best-effort readability trim, skipped for the final window.
		if end < len(runes) {
			if cut := lastPeriod(window); cut >= boundary {
				window = window[:cut+1]
			}
		}

		if chunk := strings.TrimSpace(string(window)); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if len(chunks) >= maxChunks {
			break
		}
	}
	return chunks
}

func lastPeriod(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == '.' {
			return i
		}
	}
	return -1
}
