//go:build linux

package kbd

import (
	"context"
	"fmt"

	evdev "github.com/holoplot/go-evdev"

	"github.com/zTsugumi/vdev/ps2"
)

// StartCapture opens a local keyboard through evdev and feeds its key
// events into the controller as set-1 scancode bytes. Presses and
// repeats inject the make code, releases the break code; repeats count
// as presses so a held direction key sustains chord motion. path is an
// event-node path, or "auto" to pick the first device with EV_KEY
// capability. Capture stops when ctx is cancelled.
func (s *Server) StartCapture(ctx context.Context, path string) error {
	dev, err := openCaptureDevice(path)
	if err != nil {
		return err
	}
	name, _ := dev.Name()
	devPath := dev.Path()
	s.logger.Info("capturing keyboard", "path", devPath, "name", name)

	go func() {
		<-ctx.Done()
		_ = dev.Close()
	}()
	go func() {
		for {
			ev, err := dev.ReadOne()
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Error("keyboard capture stopped", "error", err)
				}
				return
			}
			if ev.Type != evdev.EV_KEY {
				continue
			}
			// Linux key codes below 0x80 coincide with set-1 make codes.
			if ev.Code > 0x7F {
				continue
			}
			sc := ps2.Scancode(ev.Code)
			if ev.Value == 0 {
				sc = sc.Release()
			}
			s.rawLogger.Log(true, []byte{byte(sc)})
			s.ctl.Inject(byte(sc))
		}
	}()
	return nil
}

// openCaptureDevice resolves the capture path. "auto" walks the input
// device list and takes the first keyboard-shaped device.
func openCaptureDevice(path string) (*evdev.InputDevice, error) {
	if path != "auto" {
		dev, err := evdev.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open capture device %s: %w", path, err)
		}
		return dev, nil
	}

	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}
		for _, c := range dev.CapableEvents(evdev.EV_KEY) {
			if c == evdev.KEY_A {
				return dev, nil
			}
		}
		_ = dev.Close()
	}
	return nil, fmt.Errorf("no keyboard-capable input device found")
}
