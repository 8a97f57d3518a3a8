package progress

import (
	"regexp"
	"strconv"
	"strings"
)

var timeRe = regexp.MustCompile(`time=(\d+):(\d+):(\d+(?:\.\d+)?)`)

// ParseTimestamp extracts the first time=HH:MM:SS.ff token from line and
// returns it in seconds. Lines without a parsable token (including
// "time=N/A") report false.
func ParseTimestamp(line string) (float64, bool) {
	m := timeRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	sec, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, false
	}
	return float64(h)*3600 + float64(mins)*60 + sec, true
}

// HasTimestamp reports whether line carries a time= stats token.
func HasTimestamp(line string) bool {
	return strings.Contains(line, "time=")
}
