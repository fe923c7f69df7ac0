package remap

import "github.com/zTsugumi/vdev/ps2"

// Control channel commands. The payload's first byte selects one.
const (
	CmdSetMapping byte = '0'
	CmdSetSpeed   byte = '1'
)

// ModifierScancode arms a chord when it occupies the previous window
// slot. Left Alt on a set-1 keyboard.
const ModifierScancode = ps2.KeyLeftAlt

// DefaultSpeed is the motion magnitude per chord activation.
const DefaultSpeed = 10

// cmdBufSize caps how much of a control payload is interpreted; the
// remainder of an oversize write is accepted and ignored.
const cmdBufSize = 64

// TypeName is the device type string used for registration.
const TypeName = "remap"
