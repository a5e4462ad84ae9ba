package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ifexplore ASCII art banner. Callers should gate
// this on stdout being a terminal; it is decoration, not output.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Indigo-to-rose gradient, one stop per line.
	s1 := termenv.String(" _   __                  _").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("(_) / _| ___ __ __ _ __ | | ___  _ _  ___").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String("| ||  _|/ -_)\\ \\ /| '_ \\| |/ _ \\| '_|/ -_)").Foreground(p.Color("#c084fc"))
	s4 := termenv.String("|_||_|  \\___|/_\\_\\| .__/|_|\\___/|_|  \\___|").Foreground(p.Color("#f472b6"))
	s5 := termenv.String("                  |_|").Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
