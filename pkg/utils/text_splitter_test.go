package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("hello world", 1000, 200)
	if len(chunks) != 1 || chunks[0] != "hello world" {
		t.Fatalf("expected single chunk, got %v", chunks)
	}
}

func TestSplitTextEmptyInput(t *testing.T) {
	if chunks := SplitText("   \n ", 1000, 200); chunks != nil {
		t.Fatalf("expected nil for blank input, got %v", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := SplitText(text, 100, 20)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks[:2] {
		if len(c) != 100 {
			t.Errorf("chunk %d: expected 100 runes, got %d", i, len(c))
		}
	}
	// step is 80, so the final chunk covers runes 160..250
	if len(chunks[2]) != 90 {
		t.Errorf("last chunk: expected 90 runes, got %d", len(chunks[2]))
	}
}

func TestSplitTextOverlapGTEChunkSize(t *testing.T) {
	text := strings.Repeat("b", 300)
	chunks := SplitText(text, 100, 100)

	if len(chunks) != 3 {
		t.Fatalf("expected fallback step to produce 3 chunks, got %d", len(chunks))
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("日", 150)
	chunks := SplitText(text, 100, 0)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if got := len([]rune(chunks[0])); got != 100 {
		t.Errorf("expected 100 runes in first chunk, got %d", got)
	}
}
