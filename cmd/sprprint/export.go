package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-jx/spr"
)

// exportPNGs writes every frame of s into dir as d<dir>_f<NNN>.png, plus a
// meta.json with each frame's size and anchor offset.
func exportPNGs(s *spr.File, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for k := range s.Frames {
		img, err := s.FrameImage(k)
		if err != nil {
			return err
		}
		d, st := s.Direction(k)
		name := filepath.Join(dir, fmt.Sprintf("d%d_f%03d.png", d, st))
		if err := writePNG(name, img); err != nil {
			return err
		}
	}

	meta, err := json.MarshalIndent(s.Meta(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "meta.json"), meta, 0644); err != nil {
		return errors.Wrap(err, "writing meta.json")
	}
	glog.Infof("exported %d frames to %s", len(s.Frames), dir)
	return nil
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", name)
	}
	return f.Close()
}

// exportGIF writes the animation of direction dir to name.
func exportGIF(s *spr.File, dir int, name string) error {
	g, err := s.DirectionGIF(dir)
	if err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, g); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", name)
	}
	return f.Close()
}
