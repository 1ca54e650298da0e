// Package compositor paints a character out of per-slot sprite layers into
// a single image.Image.
//
// Every layer's frame is placed relative to a shared pivot using the
// frame's anchor offset, and layers are drawn back to front. The layer
// order normally comes from the npcres tables.
package compositor

import (
	"image"
	"image/draw"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-jx/npcres"
	"badc0de.net/pkg/go-jx/spr"
)

// Layer is one frame of one sprite, worn in a slot.
type Layer struct {
	Slot   npcres.Slot
	Sprite *spr.File
	Frame  int
}

// Composite draws layers in order, each frame over the previous ones.
//
// The returned image covers exactly the union of all frames. The returned
// point is where the shared pivot lies inside that image; a renderer that
// wants the character standing at p draws the image at p minus that point.
// Layers without a sprite are skipped.
func Composite(layers []Layer) (*image.NRGBA, image.Point, error) {
	var union image.Rectangle
	for i, l := range layers {
		if l.Sprite == nil {
			continue
		}
		if l.Frame < 0 || l.Frame >= len(l.Sprite.Frames) {
			return nil, image.Point{}, errors.Errorf("compositor: layer %d (%s): frame %d out of range [0,%d)", i, l.Slot, l.Frame, len(l.Sprite.Frames))
		}
		union = union.Union(l.Sprite.Frames[l.Frame].Placement())
	}

	// Move the union to the origin; the pivot moves with it.
	pivot := image.Point{}.Sub(union.Min)
	img := image.NewNRGBA(union.Sub(union.Min))

	for _, l := range layers {
		if l.Sprite == nil {
			continue
		}
		f := &l.Sprite.Frames[l.Frame]
		dst := f.Placement().Add(pivot)
		draw.Draw(img, dst, f.Image(l.Sprite.Palette), image.Point{}, draw.Over)
		glog.V(2).Infof("compositor: %s frame %d at %v", l.Slot, l.Frame, dst)
	}
	return img, pivot, nil
}

// Order returns the layers whose slot appears in order, sorted back to
// front as order lists them. Layers with a slot order does not mention are
// dropped. The input is not modified.
func Order(order []npcres.Slot, layers []Layer) []Layer {
	pos := make(map[npcres.Slot]int, len(order))
	for i, s := range order {
		if _, ok := pos[s]; !ok {
			pos[s] = i
		}
	}

	var out []Layer
	for _, l := range layers {
		if _, ok := pos[l.Slot]; !ok {
			glog.V(1).Infof("compositor: slot %q is not in the layer order; not drawn", l.Slot)
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return pos[out[i].Slot] < pos[out[j].Slot]
	})
	return out
}

// OrderString is Order with the layer order given as a list of layer ids,
// as stored in resource tables. An empty order uses the default one.
func OrderString(t npcres.Tables, order string, layers []Layer) []Layer {
	if order == "" {
		order = npcres.DefaultLayerOrder
	}
	return Order(npcres.ParseLayerOrder(t, order), layers)
}
