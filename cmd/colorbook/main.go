// Command colorbook replays coloring sessions and inspects outline images
// without a window.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newCLIApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
