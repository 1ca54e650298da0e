// Command sprprint prints sprite frames on the terminal and exports them.
//
// A sprite is read either from a loose file or, with -path, from the .pak
// archives given in -pak:
//
//	sprprint body01.spr
//	sprprint -pak data/pak -path '\spr\npcres\man\body01.spr' -dir 2 -frame 1
//	sprprint -path '\spr\npcres\man\body01.spr' -png_dir out -gif out/walk.gif
//
// With -layers, several sprites are composited into one character:
//
//	sprprint -layers 'body=\spr\npcres\man\body01.spr,head=\spr\npcres\man\head01.spr'
package main

import (
	"flag"
	"fmt"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"

	"badc0de.net/pkg/go-jx/pak"
	"badc0de.net/pkg/go-jx/paths"
	"badc0de.net/pkg/go-jx/spr"
)

var (
	sprPath  = flag.String("path", "", "path of the sprite inside the archives")
	dirFlag  = flag.Int("dir", 0, "direction to print")
	frameArg = flag.Int("frame", 0, "frame within the direction to print")
	noPrint  = flag.Bool("noprint", false, "do not print the frame on the terminal")
	info     = flag.Bool("info", true, "print the sprite header")

	pngDir  = flag.String("png_dir", "", "export every frame as d<dir>_f<NNN>.png into this directory, along with meta.json")
	gifPath = flag.String("gif", "", "export the animation of -dir as a GIF to this file")
	dataURL = flag.Bool("dataurl", false, "print the frame as a PNG data URL")

	layers     = flag.String("layers", "", "comma separated slot=path list of sprites to composite")
	layerOrder = flag.String("order", "", "layer ids, back to front, for -layers; defaults to the client's default order")

	pakList string
)

// openSet opens the archives named by -pak, or returns nil if there are
// none.
func openSet() (*pak.Set, error) {
	archives, err := paths.ExpandPaks(pakList)
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return nil, nil
	}
	return pak.OpenSet(archives)
}

// load reads a sprite from the archives if the name came from -path or
// -layers, or from a loose file otherwise. Loose files are looked up like
// paths.Find does.
func load(set *pak.Set, name string, fromPak bool) (*spr.File, error) {
	if !fromPak {
		f, err := paths.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return spr.DecodeAll(f)
	}
	if set == nil {
		return nil, fmt.Errorf("%s: no archives to look in; use -pak or set %s", name, paths.EnvVar)
	}
	b, err := set.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return spr.DecodeBytes(b)
}

func printInfo(s *spr.File) {
	h := s.Header
	fmt.Printf("size %dx%d, center %d,%d, %d frames, %d colors, %d directions (%d frames each), %v per frame\n",
		h.Width, h.Height, h.CenterX, h.CenterY, len(s.Frames), len(s.Palette), s.Directions(), s.FramesPerDirection(), s.FrameDelay())
}

func main() {
	paths.SetupPakFlag("pak", &pakList)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	set, err := openSet()
	if err != nil {
		glog.Exitf("opening archives: %v", err)
	}
	if set != nil {
		defer set.Close()
	}

	if *layers != "" {
		img, err := composite(set, *layers, *layerOrder, *dirFlag, *frameArg)
		if err != nil {
			glog.Exitf("compositing: %v", err)
		}
		if !*noPrint {
			out(img)
		}
		if *dataURL {
			printDataURL(img)
		}
		return
	}

	var name string
	var fromPak bool
	switch {
	case *sprPath != "":
		name, fromPak = *sprPath, true
	case flag.NArg() == 1:
		name = flag.Arg(0)
	default:
		glog.Exitf("pass a sprite file, or -path with -pak")
	}

	s, err := load(set, name, fromPak)
	if err != nil {
		glog.Exitf("loading %s: %v", name, err)
	}
	if *info {
		printInfo(s)
	}

	if *pngDir != "" {
		if err := exportPNGs(s, *pngDir); err != nil {
			glog.Exitf("exporting frames: %v", err)
		}
	}
	if *gifPath != "" {
		if err := exportGIF(s, *dirFlag, *gifPath); err != nil {
			glog.Exitf("exporting animation: %v", err)
		}
	}

	frames := s.DirectionFrames(*dirFlag)
	if len(frames) == 0 {
		glog.Exitf("direction %d has no frames", *dirFlag)
	}
	k := frames[step(*frameArg, len(frames))]
	img, err := s.FrameImage(k)
	if err != nil {
		glog.Exitf("rendering frame %d: %v", k, err)
	}
	if !*noPrint {
		out(img)
	}
	if *dataURL {
		printDataURL(img)
	}
}
