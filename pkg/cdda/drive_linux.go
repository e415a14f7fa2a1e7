//go:build linux

package cdda

import (
	"context"
	"time"
	"unsafe"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sys/unix"
)

// ioctl request codes and values from linux/cdrom.h.
const (
	cdromReadTOCHeader = 0x5305
	cdromReadTOCEntry  = 0x5306
	cdromDriveStatus   = 0x5326
	cdromLeadout       = 0xAA
	addressFormatLBA   = 1
	statusDiscOK       = 4
)

// tocHeader mirrors struct cdrom_tochdr.
type tocHeader struct {
	FirstTrack uint8
	LastTrack  uint8
}

// tocEntry mirrors struct cdrom_tocentry with the address union always read
// in LBA format.
type tocEntry struct {
	Track    uint8
	AdrCtrl  uint8
	Format   uint8
	_        uint8
	LBA      int32
	Datamode uint8
	_        [3]byte
}

func ioctlPtr(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// DiscID reads the table of contents of the disc in drive and computes its
// CDDB disc ID query string.
func DiscID(drive string) (string, error) {
	fd, err := unix.Open(drive, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", drive, err)
	}
	defer unix.Close(fd)
	var header tocHeader
	if err := ioctlPtr(fd, cdromReadTOCHeader, unsafe.Pointer(&header)); err != nil {
		return "", errors.Errorf("reading TOC header: %w", err)
	}
	lbas := make([]int32, 0, header.LastTrack)
	for i := uint8(0); i < header.LastTrack; i++ {
		entry := tocEntry{Track: i + 1, Format: addressFormatLBA}
		if err := ioctlPtr(fd, cdromReadTOCEntry, unsafe.Pointer(&entry)); err != nil {
			return "", errors.Errorf("reading TOC entry %d: %w", i+1, err)
		}
		lbas = append(lbas, entry.LBA)
	}
	leadout := tocEntry{Track: cdromLeadout, Format: addressFormatLBA}
	if err := ioctlPtr(fd, cdromReadTOCEntry, unsafe.Pointer(&leadout)); err != nil {
		return "", errors.Errorf("reading lead-out entry: %w", err)
	}
	return FormatDiscID(lbas, leadout.LBA), nil
}

// WaitForDisc polls drive until the kernel reports a disc is present and
// ready, or ctx is cancelled.
func WaitForDisc(ctx context.Context, drive string, interval time.Duration) error {
	fd, err := unix.Open(drive, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return errors.Errorf("opening %s: %w", drive, err)
	}
	defer unix.Close(fd)
	for {
		status, err := unix.IoctlRetInt(fd, cdromDriveStatus)
		if err != nil {
			return errors.Errorf("querying drive status: %w", err)
		}
		if status == statusDiscOK {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
