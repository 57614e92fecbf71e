package xtime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// unitSizes maps the accepted unit suffixes to their length. It extends the
// units of time.ParseDuration with days, weeks, months and years.
var unitSizes = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"µs": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  day, "D": day,
	"w": week, "W": week,
	"M": month,
	"y": year, "Y": year,
}

// formatUnits are the units FormatDuration writes, largest first.
var formatUnits = []struct {
	suffix string
	size   time.Duration
}{
	{"Y", year}, {"M", month}, {"w", week}, {"d", day},
	{"h", time.Hour}, {"m", time.Minute}, {"s", time.Second},
	{"ms", time.Millisecond}, {"µs", time.Microsecond}, {"ns", time.Nanosecond},
}

// Duration is a time.Duration that is parsed from and formatted to the
// extended duration syntax. It can be used directly as a CLI flag type.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(dur)

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(FormatDuration(time.Duration(d), time.Second)), nil
}

// ParseDuration parses a sequence of decimal numbers, each followed by a unit,
// such as "10d", "-1.5w" or "3Y4M5d". Besides the units of time.ParseDuration,
// it accepts "d" or "D" for days, "w" or "W" for weeks, "M" for 30-day months,
// and "y" or "Y" for 365-day years.
func ParseDuration(s string) (time.Duration, error) {
	orig := s
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "-+")
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if s == "0" {
		return 0, nil
	}

	invalid := fmt.Errorf("invalid duration '%s'", orig)
	var total time.Duration
	for s != "" {
		numEnd := strings.IndexFunc(s, func(r rune) bool { return !isNumeric(r) })
		if numEnd <= 0 {
			return 0, invalid
		}
		num, rest := s[:numEnd], s[numEnd:]

		unitEnd := strings.IndexFunc(rest, isNumeric)
		if unitEnd < 0 {
			unitEnd = len(rest)
		}
		unit := rest[:unitEnd]
		s = rest[unitEnd:]

		size, ok := unitSizes[unit]
		if !ok {
			return 0, fmt.Errorf("unknown unit '%s' in duration '%s'", unit, orig)
		}

		part, err := scale(num, size)
		if err != nil {
			return 0, invalid
		}
		if total > math.MaxInt64-part {
			return 0, fmt.Errorf("duration '%s' out of range", orig)
		}
		total += part
	}

	if neg {
		total = -total
	}

	return total, nil
}

func isNumeric(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.'
}

// scale returns num units of the given size. Integers are scaled exactly.
func scale(num string, size time.Duration) (time.Duration, error) {
	if !strings.Contains(num, ".") {
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return 0, err
		}
		if n > int64(math.MaxInt64/size) {
			return 0, errors.New("overflow")
		}
		return time.Duration(n) * size, nil
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}
	v := f * float64(size)
	if v > math.MaxInt64 {
		return 0, errors.New("overflow")
	}

	return time.Duration(v), nil
}

// FormatDuration writes d with the largest units that fit, e.g. "10d",
// "-1w2d" or "3Y4M5d", using the units accepted by ParseDuration. d is first
// rounded to round, and units smaller than round are omitted. A zero duration
// is written as "0d".
func FormatDuration(d time.Duration, round time.Duration) string {
	if round > 0 {
		d = d.Round(round)
	}
	if d == 0 {
		return "0d"
	}

	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}

	var sb strings.Builder
	for _, u := range formatUnits {
		if u.size < round {
			break
		}
		if n := d / u.size; n > 0 {
			fmt.Fprintf(&sb, "%d%s", n, u.suffix)
			d %= u.size
		}
	}
	if sb.Len() == 0 {
		return "0d"
	}

	return sign + sb.String()
}
