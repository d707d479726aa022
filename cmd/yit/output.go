package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

func printSection(out io.Writer, title string, lines []string, c *color.Color) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, title)
	for _, l := range lines {
		c.Fprintln(out, l)
	}
}
