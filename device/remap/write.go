package remap

import (
	"strconv"
	"strings"
)

// Write implements the control channel's write path. Semantics are
// deliberately permissive: malformed payloads are logged and dropped
// while the call still reports every byte accepted, so a misbehaving
// writer observes the same outcome as a correct one. Only transport
// failures before the payload reaches the device surface as errors,
// and those are raised by the caller, not here.
//
// Payload: `<cmd-digit> <separator> <argument...>`. The separator is
// positional; its value is not inspected.
func (r *Remap) Write(p []byte) (int, error) {
	buf := p
	if len(buf) > cmdBufSize {
		buf = buf[:cmdBufSize]
	}
	// Interpret our own copy, never the caller's slice.
	own := make([]byte, len(buf))
	copy(own, buf)

	if len(own) < 2 {
		r.discard("payload shorter than command prefix", own)
		return len(p), nil
	}

	arg := own[2:]
	switch own[0] {
	case CmdSetMapping:
		if len(arg) < 4 {
			r.discard("mapping argument shorter than 4 symbols", own)
			break
		}
		// The 4 bytes are stored verbatim; surplus bytes are ignored.
		m := Mapping{Up: arg[0], Down: arg[1], Left: arg[2], Right: arg[3]}
		r.lock.Lock()
		r.state.mapping = m
		r.lock.Unlock()
		r.log.Debug("mapping updated", "mapping", m.String())

	case CmdSetSpeed:
		v, err := strconv.Atoi(strings.TrimSpace(string(arg)))
		if err != nil {
			r.discard("speed argument is not a decimal integer", own)
			break
		}
		r.lock.Lock()
		r.state.speed = v
		r.lock.Unlock()
		r.log.Debug("speed updated", "speed", v)

	default:
		r.discard("unknown command byte", own)
	}

	return len(p), nil
}

func (r *Remap) discard(reason string, payload []byte) {
	r.malformed.Add(1)
	r.log.Debug("control write ignored", "reason", reason, "payload", string(payload))
}
