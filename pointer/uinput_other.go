//go:build !linux

package pointer

import (
	"errors"
	"log/slog"
)

// UInput is only available on Linux.
type UInput struct{}

// OpenUInput fails on platforms without /dev/uinput.
func OpenUInput(logger *slog.Logger, name string) (*UInput, error) {
	return nil, errors.New("uinput output is only supported on linux")
}

func (u *UInput) Emit(Rel) {}

func (u *UInput) Close() error { return nil }
