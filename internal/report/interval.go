// Package report compares successive audit runs and produces historical
// reports with new/fixed issue breakdowns.
package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/seoaudit/internal/logger"
)

// DefaultInterval is the report cadence used when no interval is
// configured or the configured value is invalid.
const DefaultInterval = 7 * 24 * time.Hour

var intervalPattern = regexp.MustCompile(`^(\d+)([dwm])$`)

// ParseInterval parses strings like "7d", "2w" or "1m" into a duration.
// Months are approximated as 30 days.
func ParseInterval(s string) (time.Duration, error) {
	m := intervalPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, fmt.Errorf(
			"invalid interval format %q: expected a number followed by d (days), w (weeks), or m (months), e.g. \"7d\", \"2w\", \"1m\"", s)
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid interval value %q: %w", m[1], err)
	}

	day := 24 * time.Hour
	switch m[2] {
	case "d":
		return time.Duration(value) * day, nil
	case "w":
		return time.Duration(value) * 7 * day, nil
	default: // "m"
		return time.Duration(value) * 30 * day, nil
	}
}

// IntervalOrDefault parses an interval string, falling back to the
// default cadence with a logged warning when the value is invalid.
func IntervalOrDefault(s string, log logger.Interface) time.Duration {
	if log == nil {
		log = logger.NewNoOp()
	}
	interval, err := ParseInterval(s)
	if err != nil {
		log.Warn("invalid report interval, using default",
			"configured", s, "default", DefaultInterval.String(), "error", err)
		return DefaultInterval
	}
	return interval
}
