package utils

import "strings"

// SplitText cuts text into chunks of roughly chunkSize runes with an
// overlap between neighbours so sentence boundaries survive chunking.
// Character-based on purpose: deterministic and tokenizer-free.
func SplitText(text string, chunkSize int, overlap int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) <= chunkSize {
		return []string{trimmed}
	}

	runes := []rune(trimmed)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
