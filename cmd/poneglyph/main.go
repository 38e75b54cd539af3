// Command poneglyph runs the ownership contest from the command line.
package main

import "github.com/mesh-intelligence/poneglyph/internal/cli"

func main() {
	cli.Execute()
}
