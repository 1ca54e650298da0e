// Package imageprint prints images on terminal. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/gookit/color"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
)

type shadeMode int

const (
	mode256Color shadeMode = iota
	modeTrueColor
	modeNoColor
)

func shade(w io.Writer, col ic.Color, mode shadeMode, blanks bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if mode == modeNoColor {
			fmt.Fprint(w, "  ")
		} else {
			fmt.Fprint(w, "\x1b[0m  ")
		}
		return
	}

	glyph := "  "
	if !blanks {
		a := ((cR + cG + cB) / 3) >> 8
		switch {
		case a < 32:
			glyph = ".."
		case a < 64:
			glyph = "--"
		case a < 128:
			glyph = "=="
		default:
			glyph = "##"
		}
	}

	switch mode {
	case modeNoColor:
		fmt.Fprint(w, glyph)
	case modeTrueColor:
		// RGBA() is premultiplied; undo it so translucent pixels keep their hue.
		r, g, b := cR*0xffff/cA, cG*0xffff/cA, cB*0xffff/cA
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", uint8(r>>8), uint8(g>>8), uint8(b>>8), glyph)
	default:
		fmt.Fprint(w, color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true).Sprint(glyph))
	}
}

func printImage(w io.Writer, i image.Image, mode shadeMode, blanks bool) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			shade(w, i.At(x, y), mode, blanks)
		}
		if mode != modeNoColor {
			fmt.Fprintf(w, "\x1b[0m")
		}
		fmt.Fprintf(w, "\n")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(w io.Writer, i image.Image, blanks bool) {
	printImage(w, i, mode256Color, blanks)
}

// Print24bit draws an image using 24bit color escape sequences by changing background.
func Print24bit(w io.Writer, i image.Image, blanks bool) {
	printImage(w, i, modeTrueColor, blanks)
}

// PrintNoColor draws an image without using color escape sequences. Only
// makes sense with blanks=false.
func PrintNoColor(w io.Writer, i image.Image, blanks bool) {
	printImage(w, i, modeNoColor, blanks)
}

// PrintITerm draws an image using iTerm2's escape sequences. Nothing is
// printed on other terminals.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(w io.Writer, i image.Image, fn string) {
	if !isTermItermWez() {
		return
	}
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	png.Encode(bEnc, i)
	bEnc.Close()
	fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
}

// DataURL encodes an image as PNG and returns it as a data: URL, suitable
// for pasting into a browser or an HTML page.
func DataURL(i image.Image) (string, error) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, i); err != nil {
		return "", errors.Wrap(err, "imageprint: encoding png")
	}
	return dataurl.New(buf.Bytes(), "image/png").String(), nil
}

// Paletted reduces an image to at most n colors with a median cut
// quantizer, dithering the result. Fully transparent pixels map to an extra
// transparent palette entry, so the palette can have n+1 colors.
func Paletted(i image.Image, n int) *image.Paletted {
	pal := make(ic.Palette, 1, n+1)
	pal[0] = ic.Transparent
	pal = quantize.MedianCutQuantizer{Aggregation: quantize.Mean}.Quantize(pal, i)
	p := image.NewPaletted(i.Bounds(), pal)
	draw.FloydSteinberg.Draw(p, i.Bounds(), i, i.Bounds().Min)
	return p
}
