package llm

import (
	"regexp"
	"strings"
)

const fence = "```"

// opening fence plus an optional language tag, e.g. ```json
var reFenceOpen = regexp.MustCompile("^```[A-Za-z0-9_+.-]*[ \t]*\r?\n?")

// RawReply is reply text with formatting wrappers removed.
type RawReply struct {
	Text      string
	WasFenced bool
}

// NormalizeReply strips a leading fenced-code block wrapper and surrounding whitespace.
// The body runs to the last closing fence, so fences quoted inside it survive.
func NormalizeReply(raw string) RawReply {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, fence) {
		return RawReply{Text: s}
	}
	s = reFenceOpen.ReplaceAllString(s, "")
	if i := strings.LastIndex(s, fence); i >= 0 {
		s = s[:i]
	}
	return RawReply{Text: strings.TrimSpace(s), WasFenced: true}
}

// Normalize returns the clean text of NormalizeReply. Normalizing clean text is a no-op.
func Normalize(raw string) string {
	return NormalizeReply(raw).Text
}
