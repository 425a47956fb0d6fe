// Package mdsplit splits Telegram-flavoured markdown into messages that each
// parse on their own.
package mdsplit

import "strings"

// Tag is an inline markdown token kind with its delimiters.
type Tag struct {
	Name  string
	Open  string
	Close string
}

// Tags recognised by the scanner, in match order. Fenced code must come before
// inline code so that "```" is not read as three inline code markers.
var Tags = []Tag{
	{Name: "pre", Open: "```", Close: "```"},
	{Name: "code", Open: "`", Close: "`"},
	{Name: "bold", Open: "*", Close: "*"},
	{Name: "italic", Open: "_", Close: "_"},
}

// TagStack is the ordered set of tags left open at the end of a scan.
type TagStack []Tag

// Prefix returns the open delimiters in the order they were opened.
func (s TagStack) Prefix() string {
	var b strings.Builder
	for _, t := range s {
		b.WriteString(t.Open)
	}
	return b.String()
}

// Closers returns the close delimiters, most recently opened first.
func (s TagStack) Closers() string {
	var b strings.Builder
	for i := len(s) - 1; i >= 0; i-- {
		b.WriteString(s[i].Close)
	}
	return b.String()
}

// Scan walks text and returns the tags still open at the end.
//
// Escaped characters are skipped. While a tag is open only its own close
// delimiter is looked for; entities do not nest in Telegram's legacy markdown.
func Scan(text string) TagStack {
	var stack TagStack
	for i := 0; i < len(text); {
		if text[i] == '\\' {
			i += 2
			continue
		}
		if n := len(stack); n > 0 {
			top := stack[n-1]
			if strings.HasPrefix(text[i:], top.Close) {
				stack = stack[:n-1]
				i += len(top.Close)
				continue
			}
			i++
			continue
		}
		matched := false
		for _, t := range Tags {
			if strings.HasPrefix(text[i:], t.Open) {
				stack = append(stack, t)
				i += len(t.Open)
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return stack
}

// Balanced reports whether every tag opened in text is also closed.
func Balanced(text string) bool {
	return len(Scan(text)) == 0
}
