package cdda

import (
	"fmt"
	"strings"
)

// msfOffset is the standard 2 second lead-in expressed in frames.
const msfOffset = 150

// cddbSum adds the decimal digits of n, so 2344 becomes 13.
func cddbSum(n int32) int32 {
	var ret int32
	for n > 0 {
		ret += n % 10
		n /= 10
	}
	return ret
}

// FormatDiscID builds a CDDB query string from track start positions. Each
// element of trackLBAs is the logical block address of a track's first frame
// and leadoutLBA the address of the lead-out. The result is the full query
// argument: 8 hex digit disc ID, track count, frame offsets and total length
// in seconds.
func FormatDiscID(trackLBAs []int32, leadoutLBA int32) string {
	var checksum int32
	for _, lba := range trackLBAs {
		checksum += cddbSum((lba + msfOffset) / FramesPerSecond)
	}
	totalTime := (leadoutLBA+msfOffset)/FramesPerSecond - (trackLBAs[0]+msfOffset)/FramesPerSecond
	offsets := make([]string, len(trackLBAs))
	for i, lba := range trackLBAs {
		offsets[i] = fmt.Sprintf("%d", lba+msfOffset)
	}
	return fmt.Sprintf("%08x %d %s %d",
		uint32(checksum%0xff)<<24|uint32(totalTime)<<8|uint32(len(trackLBAs)),
		len(trackLBAs),
		strings.Join(offsets, " "),
		(leadoutLBA+msfOffset)/FramesPerSecond)
}
