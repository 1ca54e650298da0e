package spr

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"time"

	"github.com/andybons/gogif"
	"github.com/pkg/errors"
)

// tickRate is the number of animation ticks per second; Header.Interval is
// counted in these.
const tickRate = 18

// defaultFrameDelay is used for sprites that do not set Interval.
const defaultFrameDelay = 50 * time.Millisecond

// Directions returns the number of facing directions. Sprites that do not
// declare any are treated as having one.
func (s *File) Directions() int {
	if s.Header.DirectionCount == 0 {
		return 1
	}
	return int(s.Header.DirectionCount)
}

// FramesPerDirection returns how many consecutive frames make up the
// animation for one direction. It is at least 1 unless the sprite has no
// frames at all.
func (s *File) FramesPerDirection() int {
	if len(s.Frames) == 0 {
		return 0
	}
	n := len(s.Frames) / s.Directions()
	if n == 0 {
		return 1
	}
	return n
}

// Direction returns the direction frame k belongs to and its position
// within that direction's animation.
func (s *File) Direction(k int) (dir, step int) {
	n := s.FramesPerDirection()
	if n == 0 {
		return 0, 0
	}
	return k / n, k % n
}

// DirectionFrames returns the frame numbers of direction dir's animation, in
// order. Frames left over when the frame count is not a multiple of the
// direction count are not part of any direction.
func (s *File) DirectionFrames(dir int) []int {
	n := s.FramesPerDirection()
	if dir < 0 || n == 0 {
		return nil
	}
	start := dir * n
	end := start + n
	if end > len(s.Frames) {
		end = len(s.Frames)
	}
	var out []int
	for k := start; k < end; k++ {
		out = append(out, k)
	}
	return out
}

// FrameDelay returns how long each frame is shown.
func (s *File) FrameDelay() time.Duration {
	if s.Header.Interval == 0 {
		return defaultFrameDelay
	}
	return time.Duration(s.Header.Interval) * time.Second / tickRate
}

// FrameAt returns the frame of direction dir that is shown once elapsed has
// passed since the animation started. Animations loop. It returns false if
// the direction has no frames.
func (s *File) FrameAt(dir int, elapsed time.Duration) (int, bool) {
	frames := s.DirectionFrames(dir)
	if len(frames) == 0 {
		return 0, false
	}
	if elapsed < 0 {
		elapsed = 0
	}
	step := int(elapsed/s.FrameDelay()) % len(frames)
	return frames[step], true
}

// DirectionGIF renders direction dir's animation as a looping GIF.
//
// Frames are aligned on the sprite's pivot over a canvas covering all of
// them. Each frame is quantized to at most 255 colors, with palette index 0
// reserved for transparency.
func (s *File) DirectionGIF(dir int) (*gif.GIF, error) {
	frames := s.DirectionFrames(dir)
	if len(frames) == 0 {
		return nil, errors.Errorf("spr: direction %d has no frames (%d frames, %d directions)", dir, len(s.Frames), s.Directions())
	}

	var canvas image.Rectangle
	for _, k := range frames {
		canvas = canvas.Union(s.Frames[k].Placement())
	}
	if canvas.Empty() {
		return nil, errors.Errorf("spr: direction %d has only empty frames", dir)
	}
	bounds := canvas.Sub(canvas.Min)

	delay := int(s.FrameDelay() / (10 * time.Millisecond))
	if delay < 1 {
		delay = 1
	}

	g := &gif.GIF{}
	quantizer := gogif.MedianCutQuantizer{NumColor: 255}
	for _, k := range frames {
		f := &s.Frames[k]
		img := image.NewNRGBA(bounds)
		draw.Draw(img, f.Placement().Sub(canvas.Min), f.Image(s.Palette), image.Point{}, draw.Src)

		pal := image.NewPaletted(bounds, nil)
		quantizer.Quantize(pal, bounds, img, image.Point{})

		// The quantizer only yields a palette by filling pal. Redraw onto a
		// palette with transparency at index 0 so empty pixels stay empty.
		palTransparent := image.NewPaletted(bounds, append(color.Palette{color.Transparent}, pal.Palette...))
		draw.Draw(palTransparent, bounds, img, image.Point{}, draw.Over)

		g.Image = append(g.Image, palTransparent)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	g.BackgroundIndex = 0
	return g, nil
}
