package extraction

import (
	"regexp"
	"strings"
)

// TeamColors is the fixed vocabulary of jersey colors recognized in text.
var TeamColors = []string{"white", "dark", "blue", "red", "green", "yellow", "orange", "black", "navy", "maroon"}

// Positions is the fixed vocabulary of positions recognized in text.
var Positions = []string{"attackman", "midfielder", "defenseman", "goalie", "fogo", "lsm"}

var (
	colorAlt    = strings.Join(TeamColors, "|")
	positionAlt = strings.Join(Positions, "|")

	// "#23", "number 23", "no. 23"
	numberPrefix = `(?:#\s*|\bnumber\s+|\bno\.\s*)(\d{1,3})`
)

// identifierPattern captures a jersey number and a qualifier (color or
// position). NumberGroup and QualifierGroup index the submatches.
type identifierPattern struct {
	Name           string
	Pattern        *regexp.Regexp
	NumberGroup    int
	QualifierGroup int
}

// Evaluated in order; every pattern contributes to the result set.
var identifierPatterns = []identifierPattern{
	{
		Name:           "number_color",
		Pattern:        rx(numberPrefix + `\s*\(?\s*(?:in\s+|on\s+)?(` + colorAlt + `)\b`),
		NumberGroup:    1,
		QualifierGroup: 2,
	},
	{
		Name:           "color_number",
		Pattern:        rx(`\b(` + colorAlt + `)(?:\s+team)?(?:'s)?\s+` + numberPrefix),
		NumberGroup:    2,
		QualifierGroup: 1,
	},
	{
		Name:           "position_number",
		Pattern:        rx(`\b(` + positionAlt + `)\s+` + numberPrefix),
		NumberGroup:    2,
		QualifierGroup: 1,
	},
	{
		Name:           "number_position",
		Pattern:        rx(numberPrefix + `\s*,?\s*(?:the\s+|a\s+)?(` + positionAlt + `)\b`),
		NumberGroup:    1,
		QualifierGroup: 2,
	},
}

var (
	jerseyNumberPattern = rx(numberPrefix)
	teamColorPattern    = rx(`\b(` + colorAlt + `)\b`)
	positionPattern     = rx(`\b(` + positionAlt + `)\b`)
)

// ExtractIdentifiers returns every "#<number> <color-or-position>" mention in
// content, de-duplicated, in order of first appearance across the pattern
// list. No mention is a normal outcome and yields an empty, non-nil slice.
func ExtractIdentifiers(content string) []string {
	text := Normalize(content)
	out := make([]string, 0, 2)
	seen := make(map[string]struct{})

	for _, p := range identifierPatterns {
		for _, m := range p.Pattern.FindAllStringSubmatch(text, -1) {
			id := "#" + trimNumber(m[p.NumberGroup]) + " " + m[p.QualifierGroup]
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// PrimaryIdentifier returns the first identifier in content, or "".
func PrimaryIdentifier(content string) string {
	ids := ExtractIdentifiers(content)
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// JerseyNumber returns the first jersey number mentioned, or "".
func JerseyNumber(content string) string {
	m := jerseyNumberPattern.FindStringSubmatch(Normalize(content))
	if m == nil {
		return ""
	}
	return trimNumber(m[1])
}

// TeamColor returns the first team color mentioned, or "".
func TeamColor(content string) string {
	return firstGroup(teamColorPattern, Normalize(content))
}

// Position returns the first position mentioned, or "".
func Position(content string) string {
	return firstGroup(positionPattern, Normalize(content))
}

// IdentifierInfo is what we know about the player behind an identifier.
type IdentifierInfo struct {
	Identifier   string
	JerseyNumber string
	TeamColor    string
	Position     string
}

// ParseIdentifier splits a canonical identifier ("#23 white") into fields.
func ParseIdentifier(id string) IdentifierInfo {
	info := IdentifierInfo{Identifier: id}
	num, qualifier, ok := strings.Cut(strings.TrimPrefix(id, "#"), " ")
	if !ok {
		return info
	}
	info.JerseyNumber = num
	for _, c := range TeamColors {
		if qualifier == c {
			info.TeamColor = c
			return info
		}
	}
	for _, p := range Positions {
		if qualifier == p {
			info.Position = p
		}
	}
	return info
}

// CanonicalIdentifier builds "#<number> <qualifier>" from separate fields,
// preferring the color. It returns "" without a number or qualifier.
func CanonicalIdentifier(number, color, position string) string {
	number = trimNumber(strings.TrimPrefix(strings.TrimSpace(number), "#"))
	qualifier := strings.ToLower(strings.TrimSpace(color))
	if qualifier == "" {
		qualifier = strings.ToLower(strings.TrimSpace(position))
	}
	if number == "" || qualifier == "" {
		return ""
	}
	return "#" + number + " " + qualifier
}

func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// trimNumber drops leading zeros so "#07" and "#7" aggregate together.
func trimNumber(n string) string {
	t := strings.TrimLeft(n, "0")
	if t == "" && n != "" {
		return "0"
	}
	return t
}
