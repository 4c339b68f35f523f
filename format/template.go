// Package format renders generated samples through output templates that
// refer to the sample's capture groups.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind identifies what a template segment expands to.
type Kind int

const (
	// Text is literal output.
	Text Kind = iota
	// Whole is the full generated string ($0).
	Whole
	// Index is a capture group by number ($1, ${12}).
	Index
	// Name is a capture group by name ($user, ${user}).
	Name
)

// Segment is one piece of a parsed template.
type Segment struct {
	Kind  Kind
	Text  string // literal text, or the group name for Name
	Group int    // group number for Index, and for Name once validated
}

// Template is a parsed output template.
type Template struct {
	Source   string
	Segments []Segment
}

// Parse parses an output template. Supported references:
//   - $0 or ${0}: the whole generated string
//   - $1 .. $99 or ${N}: capture group by number
//   - $name or ${name}: capture group by name
//   - $$: a literal dollar sign
//
// A $ not followed by any of these is literal.
func Parse(template string) (*Template, error) {
	t := &Template{Source: template}
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			t.Segments = append(t.Segments, Segment{Kind: Text, Text: text.String()})
			text.Reset()
		}
	}

	rs := []rune(template)
	for i := 0; i < len(rs); {
		if rs[i] != '$' || i+1 == len(rs) {
			text.WriteRune(rs[i])
			i++
			continue
		}

		next := rs[i+1]
		switch {
		case next == '$':
			text.WriteByte('$')
			i += 2

		case next == '{':
			end := indexRune(rs[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("at position %d: unclosed ${", i)
			}
			seg, err := reference(string(rs[i+2 : i+2+end]))
			if err != nil {
				return nil, fmt.Errorf("at position %d: %w", i, err)
			}
			flush()
			t.Segments = append(t.Segments, seg)
			i += end + 3

		case next >= '0' && next <= '9':
			j := i + 2
			if next != '0' && j < len(rs) && rs[j] >= '0' && rs[j] <= '9' {
				j++
			}
			seg, _ := reference(string(rs[i+1 : j]))
			flush()
			t.Segments = append(t.Segments, seg)
			i = j

		case isNameStart(next):
			j := i + 2
			for j < len(rs) && isNameContinue(rs[j]) {
				j++
			}
			flush()
			t.Segments = append(t.Segments, Segment{Kind: Name, Text: string(rs[i+1 : j])})
			i = j

		default:
			text.WriteByte('$')
			i++
		}
	}
	flush()
	return t, nil
}

// reference parses the body of a ${...} or $N reference.
func reference(body string) (Segment, error) {
	if body == "" {
		return Segment{}, fmt.Errorf("empty ${}")
	}
	if body[0] >= '0' && body[0] <= '9' {
		n, err := strconv.Atoi(body)
		if err != nil {
			return Segment{}, fmt.Errorf("invalid group reference ${%s}", body)
		}
		if n == 0 {
			return Segment{Kind: Whole}, nil
		}
		return Segment{Kind: Index, Group: n}, nil
	}
	for i, r := range body {
		if (i == 0 && !isNameStart(r)) || !isNameContinue(r) {
			return Segment{}, fmt.Errorf("invalid group name ${%s}", body)
		}
	}
	return Segment{Kind: Name, Text: body}, nil
}

// Validate checks every reference against a pattern with numGroups capture
// groups and the given name to number mapping, and resolves named
// references to their numbers.
func (t *Template) Validate(numGroups int, names map[string]int) error {
	for i := range t.Segments {
		seg := &t.Segments[i]
		switch seg.Kind {
		case Index:
			if seg.Group > numGroups {
				return fmt.Errorf("template %q refers to group %d, pattern has %d", t.Source, seg.Group, numGroups)
			}
		case Name:
			n, ok := names[seg.Text]
			if !ok {
				return fmt.Errorf("template %q refers to unknown group %q", t.Source, seg.Text)
			}
			seg.Group = n
		}
	}
	return nil
}

// Expand renders the template. groups[0] is the whole string and groups[i]
// the value of capture group i; missing or unset groups expand to "".
func (t *Template) Expand(groups []string) string {
	var b strings.Builder
	for _, seg := range t.Segments {
		switch seg.Kind {
		case Text:
			b.WriteString(seg.Text)
		case Whole:
			if len(groups) > 0 {
				b.WriteString(groups[0])
			}
		case Index, Name:
			if seg.Group > 0 && seg.Group < len(groups) {
				b.WriteString(groups[seg.Group])
			}
		}
	}
	return b.String()
}

func indexRune(rs []rune, r rune) int {
	for i, c := range rs {
		if c == r {
			return i
		}
	}
	return -1
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
