// Package codec packs the linked-people list into the last line of a
// description ("People: a, b") and unpacks it again. Rows written with the
// structured linked_people field do not need it.
package codec

import (
	"regexp"
	"strings"
)

const peoplePrefix = "People: "

var peopleLine = regexp.MustCompile(`(?i)^\s*people\s*:\s*(.*)$`)

// DecodeDescription splits raw into the user-visible description and the
// people named on its last line. Only the last line is inspected.
func DecodeDescription(raw string) (string, []string) {
	i := strings.LastIndex(raw, "\n")
	last := strings.TrimSuffix(raw[i+1:], "\r")

	m := peopleLine.FindStringSubmatch(last)
	if m == nil {
		return strings.TrimSpace(raw), []string{}
	}

	people := []string{}
	for _, p := range strings.Split(m[1], ",") {
		if p = strings.TrimSpace(p); p != "" {
			people = append(people, p)
		}
	}

	if i < 0 {
		return "", people
	}
	return strings.TrimSpace(raw[:i]), people
}

// EncodeDescription appends a people line to description. With no people
// the description is returned unchanged.
func EncodeDescription(description string, people []string) string {
	people = NormalizePeople(people)
	if len(people) == 0 {
		return description
	}

	line := peoplePrefix + strings.Join(people, ", ")
	description = strings.TrimSpace(description)
	if description == "" {
		return line
	}
	return description + "\n" + line
}

// NormalizePeople trims names, drops empty ones and removes case-sensitive
// duplicates, keeping first-seen order. The result is never nil.
func NormalizePeople(people []string) []string {
	out := make([]string, 0, len(people))
	seen := make(map[string]struct{}, len(people))
	for _, p := range people {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
