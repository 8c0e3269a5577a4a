package auth

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationPattern = regexp.MustCompile(`^(\d+)([ydhms])$`)

var durationUnits = map[string]time.Duration{
	"y": 365 * 24 * time.Hour,
	"d": 24 * time.Hour,
	"h": time.Hour,
	"m": time.Minute,
	"s": time.Second,
}

// ParseExpiresIn parses a token lifetime. It accepts either a plain number
// of seconds ("3600") or an integer followed by one of the units y, d, h,
// m or s ("10y", "24h"). A year is 365 days. The empty string means
// DefaultExpiresIn.
func ParseExpiresIn(spec string) (time.Duration, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		spec = DefaultExpiresIn
	}

	amount, unit := spec, "s"
	if m := durationPattern.FindStringSubmatch(spec); m != nil {
		amount, unit = m[1], m[2]
	}

	n, err := strconv.ParseInt(amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, spec)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidDuration, spec)
	}

	mult := durationUnits[unit]
	if n > int64(math.MaxInt64/mult) {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidDuration, spec)
	}
	return time.Duration(n) * mult, nil
}
