//go:build linux

package pointer

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// From linux/uinput.h and linux/input-event-codes.h.
const (
	uinputMaxNameSize = 80

	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566

	busVirtual = 0x06

	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	btnLeft = 0x110

	absSize     = 64
	userDevSize = uinputMaxNameSize + 8 + 4 + 4*absSize*4
	eventSize   = 24
)

// UInput emits motion through a virtual relative pointer registered
// with the host input subsystem via /dev/uinput.
type UInput struct {
	log *slog.Logger
	f   *os.File
}

// OpenUInput creates the virtual pointer device. The device carries a
// left-button capability because some compositors ignore pointers that
// expose no buttons at all.
func OpenUInput(logger *slog.Logger, name string) (*UInput, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/uinput: %w", err)
	}

	setup := []struct {
		req uintptr
		arg uintptr
	}{
		{uiSetEvBit, evSyn},
		{uiSetEvBit, evKey},
		{uiSetKeyBit, btnLeft},
		{uiSetEvBit, evRel},
		{uiSetRelBit, uintptr(RelX)},
		{uiSetRelBit, uintptr(RelY)},
	}
	for _, s := range setup {
		if err := ioctl(f.Fd(), s.req, s.arg); err != nil {
			f.Close()
			return nil, fmt.Errorf("uinput setup: %w", err)
		}
	}

	if _, err := f.Write(marshalUserDev(name)); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput device setup write: %w", err)
	}
	if err := ioctl(f.Fd(), uiDevCreate, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput device create: %w", err)
	}

	return &UInput{log: logger, f: f}, nil
}

// Emit implements Emitter. Each event is followed by a SYN_REPORT so
// the host input layer flushes it immediately. Write failures are
// logged and dropped; motion has no delivery guarantee.
func (u *UInput) Emit(r Rel) {
	var buf [2 * eventSize]byte
	binary.LittleEndian.PutUint16(buf[16:], evRel)
	binary.LittleEndian.PutUint16(buf[18:], uint16(r.Axis))
	binary.LittleEndian.PutUint32(buf[20:], uint32(r.Delta))
	binary.LittleEndian.PutUint16(buf[eventSize+16:], evSyn)
	if _, err := u.f.Write(buf[:]); err != nil {
		u.log.Debug("uinput write failed", "err", err)
	}
}

// Close destroys the virtual device and closes the node.
func (u *UInput) Close() error {
	err := ioctl(u.f.Fd(), uiDevDestroy, 0)
	if cerr := u.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// marshalUserDev encodes a struct uinput_user_dev: the device name,
// an input_id, ff_effects_max and the four (unused) abs ranges.
func marshalUserDev(name string) []byte {
	b := make([]byte, userDevSize)
	copy(b[:uinputMaxNameSize-1], name)
	binary.LittleEndian.PutUint16(b[uinputMaxNameSize:], busVirtual)
	binary.LittleEndian.PutUint16(b[uinputMaxNameSize+2:], 0x0042) // vendor
	binary.LittleEndian.PutUint16(b[uinputMaxNameSize+4:], 0x0001) // product
	binary.LittleEndian.PutUint16(b[uinputMaxNameSize+6:], 0x0001) // version
	return b
}

func ioctl(fd, req, arg uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, arg); errno != 0 {
		return os.NewSyscallError("ioctl", errno)
	}
	return nil
}
