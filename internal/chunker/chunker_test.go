package chunker

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"docintel/internal/service"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks, err := Split("This is a short document.", 500, 100)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Split() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("chunk index = %d, want 0", chunks[0].Index)
	}
	if chunks[0].CharStart != 0 || chunks[0].CharEnd != len("This is a short document.") {
		t.Errorf("chunk span = [%d, %d), want whole text", chunks[0].CharStart, chunks[0].CharEnd)
	}
}

func TestSplit_LongTextMultipleChunks(t *testing.T) {
	// 2500 characters of repeated words, no boundary delimiters.
	text := strings.Repeat("Word ", 500)

	chunks, err := Split(text, 500, 100)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) <= 1 {
		t.Fatalf("Split() returned %d chunks, want more than 1", len(chunks))
	}

	for i, c := range chunks {
		if c.CharEnd-c.CharStart > 500 {
			t.Errorf("chunk[%d] pre-trim span = %d, exceeds chunk size 500", i, c.CharEnd-c.CharStart)
		}
	}

	// Consecutive chunks overlap by up to 100 characters.
	for i := 1; i < len(chunks); i++ {
		overlap := chunks[i-1].CharEnd - chunks[i].CharStart
		if overlap < 0 || overlap > 100 {
			t.Errorf("overlap between chunk[%d] and chunk[%d] = %d, want within [0, 100]", i-1, i, overlap)
		}
	}
}

func TestSplit_IndicesSequential(t *testing.T) {
	chunks, err := Split(strings.Repeat("Content ", 200), 500, 100)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk[%d].Index = %d, want %d", i, c.Index, i)
		}
	}
}

func TestSplit_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		overlap   int
	}{
		{"empty text", "", 500, 100},
		{"whitespace only", "   \n\n   ", 500, 100},
		{"zero chunk size", "some text", 0, 0},
		{"overlap equals chunk size", "some text", 100, 100},
		{"negative overlap", "some text", 100, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.text, tt.chunkSize, tt.overlap)
			if err == nil {
				t.Fatal("Split() expected error, got nil")
			}
			if !errors.Is(err, service.ErrInvalidInput) {
				t.Errorf("Split() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSplit_ParagraphBreakPreferred(t *testing.T) {
	// Paragraph break at byte 85 falls inside the break window [70, 100).
	text := strings.Repeat("a", 85) + "\n\n" + strings.Repeat("b", 100)

	chunks, err := Split(text, 100, 0)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("Split() returned %d chunks, want 2", len(chunks))
	}
	if chunks[0].CharEnd != 87 {
		t.Errorf("chunk[0].CharEnd = %d, want 87 (just after paragraph break)", chunks[0].CharEnd)
	}
	if chunks[0].Text != strings.Repeat("a", 85) {
		t.Errorf("chunk[0].Text = %q, want the first paragraph", chunks[0].Text)
	}
}

func TestSplit_LineBreakBeatsLaterSentenceBreak(t *testing.T) {
	// The window [70, 100) contains a line break at 72 and a ". " at 75.
	// The line break wins despite the sentence delimiter occurring later.
	text := strings.Repeat("x", 72) + "\nyy. " + strings.Repeat("z", 60)

	chunks, err := Split(text, 100, 0)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if chunks[0].CharEnd != 73 {
		t.Errorf("chunk[0].CharEnd = %d, want 73 (just after line break)", chunks[0].CharEnd)
	}
}

func TestSplit_SentenceBreak(t *testing.T) {
	text := strings.Repeat("w", 80) + ". " + strings.Repeat("v", 60)

	chunks, err := Split(text, 100, 0)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if chunks[0].CharEnd != 82 {
		t.Errorf("chunk[0].CharEnd = %d, want 82 (just after sentence break)", chunks[0].CharEnd)
	}
	if !strings.HasSuffix(chunks[0].Text, "w.") {
		t.Errorf("chunk[0].Text = %q, want sentence ending with period", chunks[0].Text)
	}
}

func TestSplit_WhitespaceSliceDroppedWithoutIndexGap(t *testing.T) {
	text := strings.Repeat("a", 100) + strings.Repeat(" ", 120) + "b"

	chunks, err := Split(text, 100, 0)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("Split() returned %d chunks, want 2 (whitespace-only slice dropped)", len(chunks))
	}
	if chunks[0].Index != 0 || chunks[1].Index != 1 {
		t.Errorf("indices = [%d, %d], want [0, 1]", chunks[0].Index, chunks[1].Index)
	}
	if chunks[1].Text != "b" {
		t.Errorf("chunk[1].Text = %q, want \"b\"", chunks[1].Text)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("The shipment departs at dawn. ", 60)

	first, err := Split(text, 400, 80)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	second, err := Split(text, 400, 80)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Split() is not deterministic for identical inputs")
	}
}

func TestSplit_CoverageNoGaps(t *testing.T) {
	texts := []string{
		strings.Repeat("Word ", 500),
		strings.Repeat("A sentence here. ", 100),
		strings.Repeat("para\n\n", 80) + strings.Repeat("tail", 50),
	}

	for _, text := range texts {
		chunks, err := Split(text, 300, 60)
		if err != nil {
			t.Fatalf("Split() error = %v", err)
		}
		trimmed := strings.TrimSpace(text)
		if chunks[0].CharStart != 0 {
			t.Errorf("first chunk starts at %d, want 0", chunks[0].CharStart)
		}
		for i := 1; i < len(chunks); i++ {
			if chunks[i].CharStart < chunks[i-1].CharStart {
				t.Errorf("chunk[%d].CharStart = %d decreases below %d", i, chunks[i].CharStart, chunks[i-1].CharStart)
			}
			gap := chunks[i].CharStart - chunks[i-1].CharEnd
			if gap > 60 {
				t.Errorf("gap between chunk[%d] and chunk[%d] = %d, exceeds overlap 60", i-1, i, gap)
			}
		}
		last := chunks[len(chunks)-1]
		if last.CharEnd != len(trimmed) {
			t.Errorf("last chunk ends at %d, want %d", last.CharEnd, len(trimmed))
		}
	}
}

func TestSplit_TerminatesWithLargeOverlap(t *testing.T) {
	// Overlap close to the chunk size would stall the cursor without the
	// progress guard.
	text := strings.Repeat("a", 120)

	chunks, err := Split(text, 100, 90)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("Split() returned no chunks")
	}
	last := chunks[len(chunks)-1]
	if last.CharEnd != len(text) {
		t.Errorf("last chunk ends at %d, want %d", last.CharEnd, len(text))
	}
}
