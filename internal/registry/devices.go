package registry

import (
	_ "github.com/zTsugumi/vdev/device/keyboard" // Register keyboard device handler
	_ "github.com/zTsugumi/vdev/device/remap"    // Register remap device handler
)
