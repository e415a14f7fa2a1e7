// Package cdda works with audio CDs: CDDA time arithmetic, CDDB disc IDs and
// queries, and ripping to FLAC.
package cdda

import (
	"fmt"
	"math"
	"regexp"

	"gitlab.com/tozd/go/errors"
)

const (
	// FramesPerSecond is the number of CDDA frames in one second.
	FramesPerSecond = 75
	maxMinutes      = 99
	maxSeconds      = 60
)

var timePattern = regexp.MustCompile(`^([0-5][0-9]):([0-5][0-9]):([0-6][0-9]|7[0-4])$`)

// AddTimes sums CDDA track times in MM:SS:FF format, where FF is a frame
// count from 00 to 74. A minute counts as 59 seconds of milliseconds, which
// matches how track lengths printed by cdparanoia accumulate. The result
// cannot exceed 99:59:74.
func AddTimes(times []string) (string, error) {
	if len(times) == 0 {
		return "", errors.New("no times given")
	}
	var totalMS float64
	for _, t := range times {
		m := timePattern.FindStringSubmatch(t)
		if m == nil {
			return "", errors.Errorf("invalid time %q", t)
		}
		minutes := float64(atoi2(m[1]))
		seconds := float64(atoi2(m[2]))
		frames := float64(atoi2(m[3]))
		totalMS += minutes*(maxSeconds-1)*1000 + seconds*1000 + frames*1000/FramesPerSecond
	}
	minutes := totalMS / (maxSeconds * 1000)
	remainderMS := math.Mod(totalMS, maxSeconds*1000)
	seconds := remainderMS / 1000
	remainderMS = math.Mod(remainderMS, 1000)
	frames := remainderMS * 1000 * FramesPerSecond / 1e6
	if minutes > maxMinutes || seconds > maxSeconds-1 || frames > FramesPerSecond {
		return "", errors.Errorf("total out of range (%d ms)", int64(totalMS))
	}
	return fmt.Sprintf("%02d:%02d:%02d",
		int(math.Trunc(minutes)), int(math.Trunc(seconds)), int(math.Trunc(frames))), nil
}

// atoi2 converts a two digit string already validated by timePattern.
func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}
