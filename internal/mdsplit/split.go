package mdsplit

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is Telegram's limit for a text message.
const MaxMessageLength = 4096

// minMessageLength is the smallest usable limit: a lone delimiter plus its
// closer.
const minMessageLength = 2

// chunk is one emitted message together with the repairs applied to it.
type chunk struct {
	prefix string // tags carried over from the previous chunk
	body   string // slice of the original document
	suffix string // closers appended to balance the chunk
}

func (c chunk) text() string { return c.prefix + c.body + c.suffix }

// Split cuts doc into pieces of at most maxLen runes. Every piece is balanced:
// tags left open at a cut are closed at the end of the piece and reopened at
// the start of the next one.
func Split(doc string, maxLen int) []string {
	chunks := split(doc, maxLen)
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.text()
	}
	return out
}

func split(doc string, maxLen int) []chunk {
	if doc == "" {
		return nil
	}
	if maxLen <= 0 {
		maxLen = MaxMessageLength
	}
	if maxLen < minMessageLength {
		maxLen = minMessageLength
	}

	runes := []rune(doc)
	clean := cleanCuts(runes)
	var (
		out   []chunk
		carry TagStack
	)
	for offset := 0; offset < len(runes); {
		prefix := carry.Prefix()
		budget := maxLen - utf8.RuneCountInString(prefix)

		var c chunk
		var open TagStack
		for {
			if budget < 1 {
				// The carried prefix alone fills the message; drop it rather
				// than loop forever.
				prefix, budget = "", maxLen
			}
			end := cutPoint(runes, clean, offset, budget)
			n := end - offset
			c, open = assemble(prefix, runes[offset:end])
			size := utf8.RuneCountInString(c.text())
			if size <= maxLen && sound(c) {
				offset = end
				break
			}
			if n <= 1 {
				if prefix == "" {
					// A single rune on its own always balances within
					// minMessageLength.
					offset = end
					break
				}
				prefix, budget = "", maxLen
				continue
			}

			// Every retry shrinks the window so the loop ends.
			budget = n - 1
			if over := size - maxLen; over > 1 && over < n {
				budget = n - over
			}
			if k := trailingRun(runes[offset:end], '`'); k > 0 && k < n && strings.HasPrefix(c.suffix, "`") {
				budget = min(budget, n-k)
			}
		}

		carry = open
		out = append(out, c)
	}
	return out
}

// assemble builds the chunk for body under prefix and works out its closers.
func assemble(prefix string, body []rune) (chunk, TagStack) {
	c := chunk{prefix: prefix, body: string(body)}
	open := Scan(c.prefix + c.body)
	c.suffix = open.Closers()
	switch {
	case c.suffix == "":
	case trailingRun(body, '\\')%2 == 1:
		// Only reachable at the end of the document, where the cut cannot
		// move back; give the dangling escape something to eat.
		c.suffix = " " + c.suffix
	case open[len(open)-1].Name == "pre" && trailingRun(body, '`') > 0:
		// Backticks inside a code block would fuse with the closing fence.
		c.suffix = "\n" + c.suffix
	}
	return c, open
}

// sound reports whether the chunk parses on its own and an inline code closer
// does not sit right after a backtick.
func sound(c chunk) bool {
	if strings.HasPrefix(c.suffix, "`") && strings.HasSuffix(c.body, "`") {
		return false
	}
	return Balanced(c.text())
}

// cutPoint returns the exclusive end of the next chunk body starting at
// offset, using at most budget runes. It prefers the last newline in the
// window and backs off to the nearest clean boundary.
func cutPoint(runes []rune, clean []bool, offset, budget int) int {
	end := offset + budget
	if end >= len(runes) {
		return len(runes)
	}
	cut := end
	for i := end - 1; i > offset; i-- {
		if runes[i] == '\n' {
			cut = i
			break
		}
	}
	for i := cut; i > offset; i-- {
		if clean[i] {
			return i
		}
	}
	return cut
}

// cleanCuts scans the whole document the way Scan does and marks the rune
// boundaries a chunk may end on. An escape pair or a delimiter never
// straddles a clean boundary, and inline code is never left open in front of
// a double backtick, which the reopened backtick would turn into a fence.
func cleanCuts(runes []rune) []bool {
	clean := make([]bool, len(runes)+1)
	var stack TagStack
	for i := 0; i < len(runes); {
		clean[i] = !(len(stack) > 0 && stack[len(stack)-1].Name == "code" && hasPrefix(runes[i:], "``"))
		if runes[i] == '\\' {
			i += 2
			continue
		}
		if n := len(stack); n > 0 {
			if top := stack[n-1]; hasPrefix(runes[i:], top.Close) {
				stack = stack[:n-1]
				i += len(top.Close)
				continue
			}
			i++
			continue
		}
		step := 1
		for _, t := range Tags {
			if hasPrefix(runes[i:], t.Open) {
				stack = append(stack, t)
				step = len(t.Open)
				break
			}
		}
		i += step
	}
	clean[len(runes)] = true
	return clean
}

// hasPrefix compares runes against an ASCII delimiter.
func hasPrefix(rs []rune, s string) bool {
	if len(rs) < len(s) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if rs[i] != rune(s[i]) {
			return false
		}
	}
	return true
}

func trailingRun(rs []rune, r rune) int {
	n := 0
	for i := len(rs) - 1; i >= 0 && rs[i] == r; i-- {
		n++
	}
	return n
}
