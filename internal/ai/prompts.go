package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/tagging.md
var taggingPromptRaw string

// TaggingTemplate is the parsed prompt template for hashtag classification.
// Parsed once at package init; reused on every Tag call.
var TaggingTemplate = template.Must(template.New("tagging").Parse(taggingPromptRaw))
