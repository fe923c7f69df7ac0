package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/zTsugumi/vdev/apiclient"
	"github.com/zTsugumi/vdev/device/remap"
	"github.com/zTsugumi/vdev/ps2"
)

// Feed sends scancodes to a running daemon's intake plane. With --text
// it taps out the given string and exits; otherwise it puts the
// terminal into raw mode and forwards keystrokes until Ctrl-C.
type Feed struct {
	FeedAddr string `help:"Scancode feed address" default:"localhost:4260" env:"VDEV_KBD_ADDR"`
	Text     string `help:"Tap out this text and exit instead of running interactively"`
	Chord    bool   `help:"Wrap every key in a modifier chord (hold the modifier around each tap)"`
}

func (f *Feed) Run(logger *slog.Logger) error {
	conn, err := apiclient.DialFeed(f.FeedAddr, 3*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()

	if f.Text != "" {
		if f.Chord {
			for i := 0; i < len(f.Text); i++ {
				if err := conn.Chord(remap.ModifierScancode, f.Text[i]); err != nil {
					return err
				}
			}
			return nil
		}
		return conn.Text(f.Text)
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("stdin is not a terminal; use --text for scripted input")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	fmt.Print("feeding keystrokes, Ctrl-C to stop\r\n")
	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return err
		}
		b := buf[0]
		if b == 0x03 { // Ctrl-C
			return nil
		}
		sc, ok := ps2.FromASCII(b)
		if !ok {
			continue
		}
		if f.Chord {
			err = conn.Chord(remap.ModifierScancode, b)
		} else {
			err = conn.Tap(sc)
		}
		if err != nil {
			return err
		}
	}
}
