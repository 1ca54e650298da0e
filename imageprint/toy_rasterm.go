//go:build go1.13 && !windows
// +build go1.13,!windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
)

func isTermItermWez() bool {
	return rasterm.IsTermItermWez()
}

// PrintRasTerm draws an image using the RasTerm library, picking the Kitty,
// iTerm or Sixel protocol depending on what the terminal supports. It
// returns false if none is supported.
func PrintRasTerm(w io.Writer, i image.Image) bool {
	if rasterm.IsTermKitty() {
		rasterm.Settings{}.KittyWriteImage(w, i)
		fmt.Fprintf(w, "\n")
		return true
	}
	if rasterm.IsTermItermWez() {
		rasterm.Settings{}.ItermWriteImage(w, i)
		fmt.Fprintf(w, "\n")
		return true
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		rasterm.Settings{}.SixelWriteImage(w, Paletted(i, 64))
		fmt.Fprintf(w, "\n")
		return true
	}
	return false
}
