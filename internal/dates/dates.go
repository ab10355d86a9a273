// Package dates converts the free-text defense dates stored on the sheet
// into the YYYY-MM-DD form used by the edit form.
package dates

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	spanishLong = regexp.MustCompile(`(\d{1,2})\s+de\s+(\w+)\s+de\s+(\d{4})`)
	slashed     = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	isoLike     = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
)

var months = map[string]string{
	"enero":      "01",
	"febrero":    "02",
	"marzo":      "03",
	"abril":      "04",
	"mayo":       "05",
	"junio":      "06",
	"julio":      "07",
	"agosto":     "08",
	"septiembre": "09",
	"octubre":    "10",
	"noviembre":  "11",
	"diciembre":  "12",
}

// Normalize converts a defense date into YYYY-MM-DD.
//
// Recognized forms, tried in order:
//   - "15 de marzo de 2024" (unknown month names map to "01")
//   - "15/3/2024" (day/month/year)
//   - "2024-3-15", returned unchanged
//
// Anything else yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	if m := spanishLong.FindStringSubmatch(s); m != nil {
		month, ok := months[strings.ToLower(m[2])]
		if !ok {
			month = "01"
		}
		return fmt.Sprintf("%s-%s-%s", m[3], month, pad2(m[1]))
	}
	if m := slashed.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], pad2(m[2]), pad2(m[1]))
	}
	if isoLike.MatchString(s) {
		return s
	}
	return ""
}

// OrRaw returns the normalized date, or the input itself when it is not recognized
func OrRaw(s string) string {
	if n := Normalize(s); n != "" {
		return n
	}
	return s
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
