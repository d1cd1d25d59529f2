//go:build linux

package touch

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocWrite = 1
	iocRead  = 2
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

type absInfo struct {
	Value      int32
	Min        int32
	Max        int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// Grab takes exclusive access to the input device so the system UI does
// not react to the same touches.
func Grab(fd uintptr) error {
	var one int32 = 1
	// EVIOCGRAB = _IOW('E', 0x90, int)
	req := ioc(iocWrite, 'E', 0x90, uint32(unsafe.Sizeof(one)))
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(unsafe.Pointer(&one))); errno != 0 {
		return errno
	}
	return nil
}

// AxisMax queries the maximum value the device reports for an ABS axis.
func AxisMax(fd uintptr, code uint16) (int32, error) {
	var info absInfo
	// EVIOCGABS(abs) = _IOR('E', 0x40 + abs, struct input_absinfo)
	req := ioc(iocRead, 'E', 0x40+uint32(code), uint32(unsafe.Sizeof(info)))
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(unsafe.Pointer(&info))); errno != 0 {
		return 0, errno
	}
	return info.Max, nil
}
