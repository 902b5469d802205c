package bitset

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// GranuleMinutes is the scheduling resolution: one bit per half hour.
	GranuleMinutes = 30
	GranulesPerDay = 48
	BitmapLen      = 6

	// MinutesPerDay is also the canonical day-end sentinel ("24:00:00").
	MinutesPerDay = 24 * 60
)

// Bitmap holds one availability bit per granule of a single calendar day.
// The fixed-size array keeps the "always 6 bytes" invariant at the type level.
type Bitmap [BitmapLen]byte

// Window is a contiguous open range within one day, in minutes since midnight.
// End may be MinutesPerDay, meaning the window runs through midnight.
type Window struct {
	Start int
	End   int
}

func (w Window) StartString() string { return ClockString(w.Start) }
func (w Window) EndString() string   { return ClockString(w.End) }

// ClockString renders minutes-since-midnight as HH:MM:SS. The day-end sentinel
// renders as "24:00:00", never "00:00:00" of the next date.
func ClockString(m int) string {
	return fmt.Sprintf("%02d:%02d:00", m/60, m%60)
}

// ParseClock parses an HH:MM:SS local time string into minutes since midnight.
// "24:00:00" is accepted as the day-end sentinel. Non-zero seconds are rejected
// because they can never be granule-aligned.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM:SS", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if sec != 0 {
		return 0, fmt.Errorf("invalid time %q: seconds must be 00", s)
	}
	if h == 24 {
		if m != 0 {
			return 0, fmt.Errorf("invalid time %q: only 24:00:00 is allowed past 23:59", s)
		}
		return MinutesPerDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// Encode sets one bit per granule covered by any of the windows. Overlapping
// inputs are OR-ed together, so the result is their union. Windows must be
// granule-aligned; misaligned boundaries are a caller error, never rounded.
func Encode(windows []Window) (Bitmap, error) {
	var bm Bitmap
	for _, w := range windows {
		if w.Start < 0 || w.End > MinutesPerDay || w.Start >= w.End {
			return Bitmap{}, fmt.Errorf("invalid window %s-%s", w.StartString(), w.EndString())
		}
		if w.Start%GranuleMinutes != 0 || w.End%GranuleMinutes != 0 {
			return Bitmap{}, fmt.Errorf("window %s-%s is not aligned to %d-minute granules", w.StartString(), w.EndString(), GranuleMinutes)
		}
		for g := w.Start / GranuleMinutes; g < w.End/GranuleMinutes; g++ {
			bm[g/8] |= 1 << (g % 8)
		}
	}
	return bm, nil
}

// Decode turns each maximal run of set bits into one window, in day order.
// A run reaching the last granule ends at the 24:00:00 sentinel. An all-zero
// bitmap decodes to nil.
func Decode(bm Bitmap) []Window {
	var windows []Window
	runStart := -1
	for g := 0; g <= GranulesPerDay; g++ {
		set := g < GranulesPerDay && bm[g/8]&(1<<(g%8)) != 0
		switch {
		case set && runStart < 0:
			runStart = g
		case !set && runStart >= 0:
			windows = append(windows, Window{
				Start: runStart * GranuleMinutes,
				End:   g * GranuleMinutes,
			})
			runStart = -1
		}
	}
	return windows
}

// IsZero reports whether no granule is available.
func (bm Bitmap) IsZero() bool {
	return bm == Bitmap{}
}
