package cmd

import (
	"fmt"

	"github.com/zTsugumi/vdev/internal/version"
)

// Version prints the build version and exits.
type Version struct{}

func (v *Version) Run() error {
	fmt.Println(version.String())
	return nil
}
