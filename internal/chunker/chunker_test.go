package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func testConfig() Config {
	return Config{Threshold: 300, MinLength: 20, TrivialLimit: 100}
}

// para builds a paragraph of exactly n characters.
func para(ch string, n int) string {
	return strings.Repeat(ch, n)
}

func TestSplit_ShorterThanMinLength(t *testing.T) {
	cfg := testConfig()
	for _, in := range []string{"", "   ", "Hi", strings.Repeat("x", cfg.MinLength-1)} {
		if chunks := Split(in, cfg); len(chunks) != 0 {
			t.Errorf("Split(%q): expected 0 chunks, got %d", in, len(chunks))
		}
	}
}

func TestSplit_MinLengthMeasuredAfterTrim(t *testing.T) {
	cfg := testConfig()
	in := "\n\n   " + strings.Repeat("x", cfg.MinLength-1) + "   \n\n"
	if chunks := Split(in, cfg); len(chunks) != 0 {
		t.Errorf("expected padded short text to be dropped, got %d chunks", len(chunks))
	}
}

func TestSplit_BelowTrivialLimitIsOneChunk(t *testing.T) {
	cfg := testConfig()
	body := para("a", 30) + "\n\n" + para("b", 30)
	in := "  \n" + body + "\n  "
	chunks := Split(in, cfg)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != body {
		t.Errorf("expected trimmed input %q, got %q", body, chunks[0])
	}
}

func TestSplit_ExactlyMinLengthIsKept(t *testing.T) {
	cfg := testConfig()
	in := strings.Repeat("x", cfg.MinLength)
	if chunks := Split(in, cfg); len(chunks) != 1 {
		t.Errorf("expected 1 chunk at exactly MinLength, got %d", len(chunks))
	}
}

func TestSplit_ReconstructsParagraphs(t *testing.T) {
	cfg := testConfig()
	var paras []string
	for i := 0; i < 12; i++ {
		paras = append(paras, para(string(rune('a'+i)), 40+i*7))
	}
	in := strings.Join(paras, "\n\n")

	chunks := Split(in, cfg)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if got := strings.Join(chunks, ParagraphSeparator); got != in {
		t.Errorf("rejoined chunks do not reconstruct the input\nwant %q\ngot  %q", in, got)
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > cfg.Threshold {
			t.Errorf("chunk %d: length %d exceeds threshold %d", i, n, cfg.Threshold)
		}
	}
}

func TestSplit_OversizedParagraphStaysWhole(t *testing.T) {
	cfg := testConfig()
	big := para("z", cfg.Threshold*2)
	in := para("a", 50) + "\n\n" + big + "\n\n" + para("b", 50)

	chunks := Split(in, cfg)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), chunks)
	}
	if chunks[1] != big {
		t.Errorf("expected the oversized paragraph as its own chunk")
	}
}

func TestSplit_DropsShortTrailingChunk(t *testing.T) {
	cfg := testConfig()
	in := para("a", 296) + "\n\n" + para("b", 5)

	chunks := Split(in, cfg)
	if len(chunks) != 1 {
		t.Fatalf("expected trailing short chunk to be dropped, got %d chunks", len(chunks))
	}
	if chunks[0] != para("a", 296) {
		t.Errorf("unexpected surviving chunk %q", chunks[0])
	}
}

func TestSplit_SeparatorCountsTowardThreshold(t *testing.T) {
	cfg := Config{Threshold: 100, MinLength: 1, TrivialLimit: 10}
	// 50 + 2 + 49 = 101 characters joined, so the second paragraph must start a new chunk.
	in := para("a", 50) + "\n\n" + para("b", 49)
	if chunks := Split(in, cfg); len(chunks) != 2 {
		t.Errorf("expected 2 chunks, got %d", len(chunks))
	}
	// 50 + 2 + 48 = 100 fits exactly.
	in = para("a", 50) + "\n\n" + para("b", 48)
	if chunks := Split(in, cfg); len(chunks) != 1 {
		t.Errorf("expected 1 chunk, got %d", len(chunks))
	}
}

func TestSplit_NormalizesCRLF(t *testing.T) {
	cfg := Config{Threshold: 60, MinLength: 1, TrivialLimit: 10}
	in := para("a", 50) + "\r\n\r\n" + para("b", 50)
	chunks := Split(in, cfg)
	if len(chunks) != 2 {
		t.Fatalf("expected CRLF blank line to split paragraphs, got %d chunks", len(chunks))
	}
	for _, c := range chunks {
		if strings.Contains(c, "\r") {
			t.Errorf("chunk still contains carriage returns: %q", c)
		}
	}
}

func TestSplit_CountsRunesNotBytes(t *testing.T) {
	cfg := Config{Threshold: 1000, MinLength: 10, TrivialLimit: 1000}
	// 5 runes, 15 bytes.
	if chunks := Split("日本語です", cfg); len(chunks) != 0 {
		t.Errorf("expected 5-rune text below MinLength 10 to be dropped, got %d", len(chunks))
	}
}

func TestSplit_Deterministic(t *testing.T) {
	cfg := testConfig()
	in := strings.Repeat(para("q", 70)+"\n\n", 20)
	a := Split(in, cfg)
	b := Split(in, cfg)
	if strings.Join(a, "|") != strings.Join(b, "|") {
		t.Error("expected identical output for identical input")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Threshold != 24000 || cfg.MinLength != 100 || cfg.TrivialLimit != 5000 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("expected 0 tokens for empty text")
	}
	if EstimateTokens("x") != 1 {
		t.Error("expected at least 1 token for non-empty text")
	}
	if got := EstimateTokens(strings.Repeat("word ", 100)); got != 133 {
		t.Errorf("expected 133 tokens, got %d", got)
	}
}
