package retailer

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const notAvailable = "N/A"

// leadingInt parses the integer prefix of a string or number value, so
// "2", 2 and "2.00" are all 2. Anything else is 0.
func leadingInt(r gjson.Result) int {
	switch r.Type {
	case gjson.Number:
		return int(r.Num)
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		end := 0
		for end < len(s) {
			c := s[end]
			if (c == '-' || c == '+') && end == 0 {
				end++
				continue
			}
			if c < '0' || c > '9' {
				break
			}
			end++
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// truthy mirrors a loose presence check: non-empty strings, non-zero
// numbers, true, and non-empty objects or arrays.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.JSON:
		return true
	default:
		return false
	}
}

// text returns the string form of the first truthy result, or N/A.
func text(results ...gjson.Result) string {
	for _, r := range results {
		if truthy(r) {
			return r.String()
		}
	}
	return notAvailable
}
