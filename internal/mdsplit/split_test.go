package mdsplit

import (
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_EmptyDocument(t *testing.T) {
	if got := Split("", MaxMessageLength); len(got) != 0 {
		t.Errorf("Split(\"\") = %d chunks, want 0", len(got))
	}
}

func TestSplit_ShortBalancedDocumentIsOneChunk(t *testing.T) {
	doc := "*Android Engineer*\n\n_Berlin_ with `kotlin`"
	got := Split(doc, MaxMessageLength)
	if len(got) != 1 || got[0] != doc {
		t.Errorf("Split = %q, want [%q]", got, doc)
	}
}

func TestSplit_ShortUnbalancedDocumentIsRepaired(t *testing.T) {
	got := Split("dangling *bold", MaxMessageLength)
	if len(got) != 1 {
		t.Fatalf("got %d chunks, want 1", len(got))
	}
	if got[0] != "dangling *bold*" {
		t.Errorf("chunk = %q", got[0])
	}
}

func TestSplit_PlainTextWithoutNewlines(t *testing.T) {
	doc := strings.Repeat("a", 9000)
	got := Split(doc, 4096)

	wantSizes := []int{4096, 4096, 808}
	if len(got) != len(wantSizes) {
		t.Fatalf("got %d chunks, want %d", len(got), len(wantSizes))
	}
	for i, c := range got {
		if n := utf8.RuneCountInString(c); n != wantSizes[i] {
			t.Errorf("chunk %d size = %d, want %d", i, n, wantSizes[i])
		}
		if !Balanced(c) {
			t.Errorf("chunk %d not balanced", i)
		}
	}
}

func TestSplit_PrefersLastNewline(t *testing.T) {
	doc := "line one\nline two\nline three"
	got := Split(doc, 20)
	if got[0] != "line one\nline two" {
		t.Errorf("first chunk = %q, want split before last newline in window", got[0])
	}
	if strings.Join(got, "") != doc {
		t.Errorf("chunks do not reconstruct document: %q", got)
	}
}

func TestSplit_CarriesOpenTagAcrossChunks(t *testing.T) {
	doc := "intro\n*" + strings.Repeat("b", 30) + "* tail"
	chunks := split(doc, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, c := range chunks {
		if !Balanced(c.text()) {
			t.Errorf("chunk %d %q not balanced", i, c.text())
		}
		if n := utf8.RuneCountInString(c.text()); n > 20 {
			t.Errorf("chunk %d length %d exceeds limit", i, n)
		}
	}
	// A chunk cut inside the bold run must close it, and the next must reopen it.
	for i := 0; i < len(chunks)-1; i++ {
		if chunks[i].suffix != "" && chunks[i+1].prefix != "*" {
			t.Errorf("chunk %d closed %q but chunk %d reopened %q", i, chunks[i].suffix, i+1, chunks[i+1].prefix)
		}
	}
}

func TestSplit_VisibleContentReconstructsDocument(t *testing.T) {
	docs := []string{
		strings.Repeat("word *bold* _it_ `code` ", 400),
		"```\n" + strings.Repeat("fmt.Println(x)\n", 500) + "```\nafter",
		strings.Repeat("ü*ñ", 3000),
		strings.Repeat(`a\*b `, 2000),
	}
	for _, doc := range docs {
		var b strings.Builder
		for i, c := range split(doc, 500) {
			if !Balanced(c.text()) {
				t.Fatalf("chunk %d not balanced: %q", i, c.text())
			}
			if n := utf8.RuneCountInString(c.text()); n > 500 {
				t.Fatalf("chunk %d length %d exceeds limit", i, n)
			}
			b.WriteString(c.body)
		}
		if b.String() != doc {
			t.Errorf("visible content differs from document (len %d vs %d)", len(b.String()), len(doc))
		}
	}
}

func TestSplit_DoesNotEndChunkOnEscape(t *testing.T) {
	doc := "_" + strings.Repeat("x", 8) + `\*` + strings.Repeat("y", 8)
	for i, c := range split(doc, 10) {
		if strings.HasSuffix(c.body, `\`) && c.suffix != "" && !strings.HasPrefix(c.suffix, " ") {
			t.Errorf("chunk %d ends in a dangling escape before closer: %q", i, c.text())
		}
		if !Balanced(c.text()) {
			t.Errorf("chunk %d not balanced: %q", i, c.text())
		}
	}
}

func TestSplit_BackticksBeforeFenceCloser(t *testing.T) {
	doc := "```\nrun `make`\nthen deploy\n```"
	got := Split(doc, 20)
	want := []string{"```\nrun `make`\n```", "```\nthen deploy\n```"}
	if len(got) != len(want) {
		t.Fatalf("Split = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
		if !Balanced(got[i]) {
			t.Errorf("chunk %d %q not balanced", i, got[i])
		}
	}
}

func TestSplit_DanglingEscapeAtEndStaysWithinLimit(t *testing.T) {
	doc := "```\\"
	for i, c := range Split(doc, 7) {
		if n := utf8.RuneCountInString(c); n > 7 {
			t.Errorf("chunk %d %q has %d runes, limit 7", i, c, n)
		}
		if !Balanced(c) {
			t.Errorf("chunk %d %q not balanced", i, c)
		}
	}
}

func TestSplit_RandomDocuments(t *testing.T) {
	const alphabet = "ab *_`\n\\é"
	letters := []rune(alphabet)
	rng := rand.New(rand.NewPCG(1, 2))

	for iter := 0; iter < 20000; iter++ {
		doc := make([]rune, rng.IntN(41))
		for i := range doc {
			doc[i] = letters[rng.IntN(len(letters))]
		}
		maxLen := 2 + rng.IntN(23)

		var b strings.Builder
		for i, c := range split(string(doc), maxLen) {
			text := c.text()
			if n := utf8.RuneCountInString(text); n > maxLen {
				t.Fatalf("doc %q limit %d: chunk %d %q has %d runes", string(doc), maxLen, i, text, n)
			}
			if !Balanced(text) {
				t.Fatalf("doc %q limit %d: chunk %d %q not balanced", string(doc), maxLen, i, text)
			}
			b.WriteString(c.body)
		}
		if b.String() != string(doc) {
			t.Fatalf("doc %q limit %d: bodies reconstruct %q", string(doc), maxLen, b.String())
		}
	}
}
