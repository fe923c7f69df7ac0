package device

import (
	"context"
	"time"
)

type contextKey int

const (
	MetaKey contextKey = iota
)

// Meta describes a device's registration on the device table.
type Meta struct {
	Name    string
	Major   uint32
	Minor   uint32
	Node    string // informational /dev-style path
	Created time.Time
}

// GetMeta extracts the device metadata from a device context.
// Returns nil if the context doesn't contain device metadata.
func GetMeta(ctx context.Context) *Meta {
	if meta, ok := ctx.Value(MetaKey).(*Meta); ok {
		return meta
	}
	return nil
}
