package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/golang/glog"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-jx/imageprint"
)

var (
	col      = flag.Bool("col", true, "whether to use color at all")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to print with the best image protocol the terminal supports")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", true, "whether to shrink images that do not fit the terminal")
)

// step maps a frame argument onto a direction with n frames.
func step(frame, n int) int {
	s := frame % n
	if s < 0 {
		s += n
	}
	return s
}

// fit shrinks img to fit the terminal, if it is larger. Pixel sizes are
// used when an image protocol will do the printing, cells otherwise; every
// printed pixel takes two columns.
func fit(img image.Image, termSize TermSize, pixels bool) image.Image {
	var maxW, maxH uint
	if pixels && termSize.WSXPixel != 0 && termSize.WSYPixel != 0 {
		maxW, maxH = termSize.WSXPixel, termSize.WSYPixel
	} else {
		maxW, maxH = termSize.WSCol/2, termSize.WSRow
	}
	if maxW == 0 || maxH == 0 {
		return img
	}
	sz := img.Bounds().Size()
	if uint(sz.X) <= maxW && uint(sz.Y) <= maxH {
		return img
	}
	return resize.Thumbnail(maxW, maxH, img, resize.Lanczos3)
}

func out(img image.Image) {
	if *downsize {
		if termSize, err := GetTermSize(); err == nil {
			img = fit(img, termSize, *rasterm || *iterm)
		} else {
			glog.V(1).Infof("not downsizing: %v", err)
		}
	}

	if *rasterm {
		if !imageprint.PrintRasTerm(os.Stdout, img) {
			imageprint.Print24bit(os.Stdout, img, *blanks)
		}
	} else if !*col {
		imageprint.PrintNoColor(os.Stdout, img, *blanks)
	} else if *iterm {
		imageprint.PrintITerm(os.Stdout, img, "frame.png")
	} else if *col256 {
		imageprint.Print256Color(os.Stdout, img, *blanks)
	} else {
		imageprint.Print24bit(os.Stdout, img, *blanks)
	}
}

func printDataURL(img image.Image) {
	u, err := imageprint.DataURL(img)
	if err != nil {
		glog.Errorf("data url: %v", err)
		return
	}
	fmt.Println(u)
}
