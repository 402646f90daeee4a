package editor

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidInput is returned when composed text has a blank title or an
// empty comment once comment blocks are stripped.
var ErrInvalidInput = errors.New("nothing to submit")

var commentBlock = regexp.MustCompile(`(?s)<!--.*?-->`)

// StripComments removes every <!-- ... --> block and the whitespace around
// the result.
func StripComments(text string) string {
	return strings.TrimSpace(commentBlock.ReplaceAllString(text, ""))
}

// ParseIssue splits composed text into a title (first line) and a body (the
// remaining lines). Comment blocks are stripped first.
func ParseIssue(text string) (title, body string, err error) {
	return ParseEdit(StripComments(text))
}

// ParseEdit splits an edited issue into title and body like ParseIssue, but
// keeps comment blocks, which belong to the body being edited.
func ParseEdit(text string) (title, body string, err error) {
	first, rest, _ := strings.Cut(strings.TrimSpace(text), "\n")
	title = strings.TrimSpace(first)
	if title == "" {
		return "", "", ErrInvalidInput
	}
	return title, strings.TrimSpace(rest), nil
}

// ParseComment returns the stripped comment text.
func ParseComment(text string) (string, error) {
	body := StripComments(text)
	if body == "" {
		return "", ErrInvalidInput
	}
	return body, nil
}

// Quote prefixes every line of text with "> ".
func Quote(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}
