// Package ps2 provides PS/2 set-1 scancode classification and symbol
// translation for the main key block of a standard keyboard.
package ps2

// Scancode is a raw set-1 scancode byte. Bit 7 carries the release flag;
// the low 7 bits identify the key.
type Scancode byte

// ReleasedMask is set on the scancode of a key-release event.
const ReleasedMask Scancode = 0x80

// Set-1 make codes for the main key block.
const (
	KeyEsc Scancode = 0x01

	// Number row 1-0
	Key1 Scancode = 0x02
	Key2 Scancode = 0x03
	Key3 Scancode = 0x04
	Key4 Scancode = 0x05
	Key5 Scancode = 0x06
	Key6 Scancode = 0x07
	Key7 Scancode = 0x08
	Key8 Scancode = 0x09
	Key9 Scancode = 0x0A
	Key0 Scancode = 0x0B

	KeyMinus     Scancode = 0x0C
	KeyEqual     Scancode = 0x0D
	KeyBackspace Scancode = 0x0E
	KeyTab       Scancode = 0x0F

	// Top letter row
	KeyQ Scancode = 0x10
	KeyW Scancode = 0x11
	KeyE Scancode = 0x12
	KeyR Scancode = 0x13
	KeyT Scancode = 0x14
	KeyY Scancode = 0x15
	KeyU Scancode = 0x16
	KeyI Scancode = 0x17
	KeyO Scancode = 0x18
	KeyP Scancode = 0x19

	KeyEnter    Scancode = 0x1C
	KeyLeftCtrl Scancode = 0x1D

	// Home row
	KeyA Scancode = 0x1E
	KeyS Scancode = 0x1F
	KeyD Scancode = 0x20
	KeyF Scancode = 0x21
	KeyG Scancode = 0x22
	KeyH Scancode = 0x23
	KeyJ Scancode = 0x24
	KeyK Scancode = 0x25
	KeyL Scancode = 0x26

	KeyLeftShift Scancode = 0x2A

	// Bottom letter row
	KeyZ Scancode = 0x2C
	KeyX Scancode = 0x2D
	KeyC Scancode = 0x2E
	KeyV Scancode = 0x2F
	KeyB Scancode = 0x30
	KeyN Scancode = 0x31
	KeyM Scancode = 0x32

	KeyRightShift Scancode = 0x36
	KeyLeftAlt    Scancode = 0x38
	KeySpace      Scancode = 0x39
	KeyCapsLock   Scancode = 0x3A
)

// IsPressed reports whether the scancode is a make (press) event.
func (s Scancode) IsPressed() bool {
	return s&ReleasedMask == 0
}

// Code strips the release flag, yielding the key's make code.
func (s Scancode) Code() Scancode {
	return s &^ ReleasedMask
}

// Release returns the break code for a make code.
func (s Scancode) Release() Scancode {
	return s | ReleasedMask
}
