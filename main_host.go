//go:build !tinygo

package main

import "fmt"

// The firmware image only makes sense under TinyGo. For running the boot
// logic on a workstation, use cmd/nodesim instead.
func main() {
	fmt.Println("this is the device image; run cmd/nodesim for the host simulator")
}
