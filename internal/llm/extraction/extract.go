// Package extraction pulls structured payloads out of free-form model
// output. The primary path is strict JSON decoding of a tag-delimited
// payload; the tag scan itself is a heuristic, not an XML parser, and makes
// no well-formedness guarantee beyond "rightmost plausible pair".
package extraction

import "strings"

// maxAttempts bounds the shrinking-window scan. Models sometimes echo the
// tag name inside explanatory prose before the real payload; each attempt
// moves the search window to before the previously found opening tag.
const maxAttempts = 5

// Extract returns the trimmed substring between the last well-formed
// <tag>…</tag> pair in text, scanning backward from the end. It returns
// the empty string when no valid pair is found within the attempt budget.
func Extract(text, tag string) string {
	opening := "<" + tag + ">"
	closing := "</" + tag + ">"

	window := len(text)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		end := strings.LastIndex(text[:window], closing)
		start := strings.LastIndex(text[:window], opening)
		if start >= 0 && end >= 0 && start+len(opening) <= end {
			if payload := strings.TrimSpace(text[start+len(opening) : end]); payload != "" {
				return payload
			}
		}
		if start < 0 {
			break
		}
		window = start
	}
	return ""
}
