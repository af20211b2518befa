package assembler

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
)

// instantLayouts are tried in order. Layouts without an offset are read as UTC.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05-0700",
	"2006-01-02T15:04:05-07",
	"2006-01-02 15:04:05-07",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

// normalizeNull maps the textual null tokens to absent.
func normalizeNull(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return nil
	}
	return v
}

// parseInstant reads a timestamp and returns it in UTC, or nil when absent or malformed.
func parseInstant(v *string) *time.Time {
	if v == nil {
		return nil
	}
	raw := strings.TrimSpace(*v)
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// ParseRewardDays extracts the leading integer of a reward value such as "10 days".
// Absent, unparsable and negative values yield nil.
func ParseRewardDays(v *string) *int {
	if v == nil {
		return nil
	}
	fields := strings.Fields(*v)
	if len(fields) == 0 {
		return nil
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// joinKey normalizes identifiers so "7", " 7 " and "7.0" resolve to the same row.
func joinKey(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	key := strings.TrimSpace(*v)
	if key == "" {
		return "", false
	}
	if strings.HasSuffix(key, ".0") {
		if n, err := strconv.ParseInt(strings.TrimSuffix(key, ".0"), 10, 64); err == nil {
			return strconv.FormatInt(n, 10), true
		}
	}
	return key, true
}

type truthySet map[string]struct{}

func newTruthySet(tokens []string) truthySet {
	set := make(truthySet, len(tokens))
	for _, token := range tokens {
		token = strings.ToUpper(strings.TrimSpace(token))
		if token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}

// parse reports whether the value is one of the truthy tokens, ignoring case.
func (s truthySet) parse(v *string) bool {
	if v == nil {
		return false
	}
	_, ok := s[strings.ToUpper(strings.TrimSpace(*v))]
	return ok
}

// titleWords upper-cases the first letter of every run of letters and
// lower-cases the rest, so any non-letter starts a new word: "o'brien" reads
// "O'Brien" and "jl. 17agustus" reads "Jl. 17Agustus".
func titleWords(c cases.Caser, s string) string {
	var b strings.Builder
	b.Grow(len(s))
	start, inWord := 0, false
	for i, ch := range s {
		letter := unicode.IsLetter(ch)
		if letter == inWord {
			continue
		}
		if inWord {
			b.WriteString(c.String(s[start:i]))
		} else {
			b.WriteString(s[start:i])
		}
		start, inWord = i, letter
	}
	if inWord {
		b.WriteString(c.String(s[start:]))
	} else {
		b.WriteString(s[start:])
	}
	return b.String()
}
