package main

import (
	"fmt"
	"image"
	"strings"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-jx/compositor"
	"badc0de.net/pkg/go-jx/npcres"
	"badc0de.net/pkg/go-jx/pak"
)

// parseLayers parses a slot=path list, as passed to -layers.
func parseLayers(list string) (map[npcres.Slot]string, error) {
	out := make(map[npcres.Slot]string)
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 || kv[0] == "" || kv[1] == "" {
			return nil, fmt.Errorf("layer %q: want slot=path", f)
		}
		out[npcres.Slot(strings.ToLower(strings.TrimSpace(kv[0])))] = strings.TrimSpace(kv[1])
	}
	return out, nil
}

// composite loads one sprite per slot and draws the given step of direction
// dir of each, in layer order. Sprites that fail to load are skipped.
func composite(set *pak.Set, list, order string, dir, frame int) (image.Image, error) {
	slots, err := parseLayers(list)
	if err != nil {
		return nil, err
	}

	var ls []compositor.Layer
	for slot, p := range slots {
		s, err := load(set, p, true)
		if err != nil {
			glog.Warningf("%s: %v; skipping layer", slot, err)
			continue
		}
		frames := s.DirectionFrames(dir)
		if len(frames) == 0 {
			glog.Warningf("%s: direction %d has no frames; skipping layer", slot, dir)
			continue
		}
		ls = append(ls, compositor.Layer{Slot: slot, Sprite: s, Frame: frames[step(frame, len(frames))]})
	}

	ls = compositor.OrderString(npcres.DefaultTables(), order, ls)
	img, pivot, err := compositor.Composite(ls)
	if err != nil {
		return nil, err
	}
	glog.Infof("composited %d layers; pivot at %v of %v", len(ls), pivot, img.Bounds())
	return img, nil
}
