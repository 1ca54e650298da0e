package spr

// This file contains spr package's functions related to implementing
// image.Image and related interfaces. Anything related to the file
// actually having multiple frames is modeled after the public interface
// of the image/gif package.

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

func init() {
	// Fourth byte of the signature varies and is ignored.
	image.RegisterFormat("spr", "SPR", Decode, DecodeConfig)
}

// DecodeConfig returns the size of the first frame. A sprite without frames
// reports the nominal size from its header.
func DecodeConfig(r io.Reader) (image.Config, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return image.Config{}, errors.Wrap(err, "spr: reading sprite")
	}
	br := bytes.NewReader(b)

	var h Header
	var pal []Color
	dir, base, err := readHead(br, &h, &pal)
	if err != nil {
		return image.Config{}, err
	}
	if len(dir) == 0 {
		return image.Config{Width: int(h.Width), Height: int(h.Height), ColorModel: color.NRGBAModel}, nil
	}

	var fh frameHeader
	if _, err := br.Seek(base+int64(dir[0].Offset), io.SeekStart); err != nil {
		return image.Config{}, errors.Wrapf(ErrFormat, "could not seek to first frame: %v", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &fh); err != nil {
		return image.Config{}, errors.Wrapf(ErrFormat, "could not read first frame header: %v", err)
	}
	return image.Config{Width: int(fh.Width), Height: int(fh.Height), ColorModel: color.NRGBAModel}, nil
}

// Decode returns the first frame of a sprite file.
func Decode(r io.Reader) (image.Image, error) {
	s, err := DecodeAll(r)
	if err != nil {
		return nil, err
	}
	if len(s.Frames) == 0 {
		return nil, errors.Wrap(ErrFormat, "sprite has no frames")
	}
	return s.FrameImage(0)
}

// Image renders the frame using pal. Pixels with alpha 0, or with an index
// past the end of pal, are transparent; the rest take the palette color and
// the pixel's own alpha. The image's bounds start at (0, 0); see Placement
// for where it goes relative to the pivot.
func (f *Frame) Image(pal []Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, int(f.Width), int(f.Height)))
	for i, a := range f.Alpha {
		if a == 0 || int(f.Indices[i]) >= len(pal) {
			continue
		}
		c := pal[f.Indices[i]]
		img.Pix[i*4+0] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = a
	}
	return img
}

// FrameImage renders frame i with the sprite's palette.
func (s *File) FrameImage(i int) (*image.NRGBA, error) {
	if i < 0 || i >= len(s.Frames) {
		return nil, errors.Errorf("spr: frame %d out of range [0,%d)", i, len(s.Frames))
	}
	return s.Frames[i].Image(s.Palette), nil
}
