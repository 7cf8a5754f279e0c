// SPDX-License-Identifier: MIT

// Command noiseregion partitions a world area into labelled regions.
//
//	noiseregion run   --config config.yml --out polygons.geojson.zst
//	noiseregion serve --config config.yml --addr :8080
//	noiseregion config
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
