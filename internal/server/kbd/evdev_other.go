//go:build !linux

package kbd

import (
	"context"
	"errors"
)

// StartCapture is only available on Linux, where evdev exists.
func (s *Server) StartCapture(ctx context.Context, path string) error {
	return errors.New("keyboard capture is only supported on linux")
}
