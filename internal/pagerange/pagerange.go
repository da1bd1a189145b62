// Package pagerange parses textual page references such as "16", "p.16" or
// "19-20" into a validated (start, end) pair.
package pagerange

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Range is an inclusive page range. A single page has Start == End.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Valid reports whether r satisfies start >= 1 and end >= start.
func (r Range) Valid() bool {
	return r.Start >= 1 && r.End >= r.Start
}

// Single reports whether r covers exactly one page.
func (r Range) Single() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	if r.Single() {
		return strconv.Itoa(r.Start)
	}
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

var (
	rangePattern  = regexp.MustCompile(`^(\d+)[-~–—](\d+)$`)
	singlePattern = regexp.MustCompile(`^(\d+)$`)
)

// Parse normalizes input and returns the page range it denotes. The second
// result is false when the input is not a valid page reference; invalid
// ranges are rejected, never clamped.
func Parse(input string) (Range, bool) {
	cleaned := normalize(input)

	if m := rangePattern.FindStringSubmatch(cleaned); m != nil {
		start, err1 := strconv.Atoi(m[1])
		end, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			return Range{}, false
		}
		r := Range{Start: start, End: end}
		return r, r.Valid()
	}

	if m := singlePattern.FindStringSubmatch(cleaned); m != nil {
		page, err := strconv.Atoi(m[1])
		if err != nil {
			return Range{}, false
		}
		r := Range{Start: page, End: page}
		return r, r.Valid()
	}

	return Range{}, false
}

// normalize lower-cases input, strips one leading "p" or "p." marker and
// removes all whitespace.
func normalize(input string) string {
	s := strings.TrimSpace(strings.ToLower(input))
	if rest, ok := strings.CutPrefix(s, "p"); ok {
		s = strings.TrimPrefix(rest, ".")
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
