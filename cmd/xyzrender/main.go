// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command xyzrender renders a demo scene offscreen, writes the pass
// outputs as PNG files and answers picking queries against it.
package main

import (
	"os"

	"cogentcore.org/scene/cmd/xyzrender/cmd"
)

func main() {
	if err := cmd.Root().Execute(); err != nil {
		os.Exit(1)
	}
}
