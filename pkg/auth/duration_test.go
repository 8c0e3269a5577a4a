package auth

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestParseExpiresIn(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	day := 24 * time.Hour
	valid := map[string]time.Duration{
		"":     10 * 365 * day,
		"10y":  10 * 365 * day,
		"1y":   365 * day,
		"30d":  30 * day,
		"24h":  24 * time.Hour,
		"15m":  15 * time.Minute,
		"45s":  45 * time.Second,
		"3600": time.Hour,
		" 7d ": 7 * day,
	}
	for in, want := range valid {
		got, err := ParseExpiresIn(in)
		c.Assert(err, qt.IsNil, qt.Commentf("input %q", in))
		c.Assert(got, qt.Equals, want, qt.Commentf("input %q", in))
	}

	invalid := []string{"0", "0d", "-5", "1.5h", "10w", "y", "ten years", "10 y", "999999999999y"}
	for _, in := range invalid {
		_, err := ParseExpiresIn(in)
		c.Assert(errors.Is(err, ErrInvalidDuration), qt.IsTrue, qt.Commentf("input %q: got %v", in, err))
	}
}
