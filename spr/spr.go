package spr

// This file contains code directly related to decoding the
// spr file format.

import (
	"bytes"
	"encoding/binary"
	"image"
	"io"
	"io/ioutil"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// MaxFramePixels caps the area of a single frame. Real sprites are a few
// hundred pixels across; anything larger comes from a corrupt header.
const MaxFramePixels = 1 << 24

// ErrFormat is returned for buffers with a bad signature or a short read in
// the header, palette, directory or frame data.
var ErrFormat = errors.New("spr: invalid sprite")

// Header is the fixed header at the start of a sprite file.
//
// Width, Height, CenterX and CenterY describe the nominal bounding box and
// pivot of the whole animation; they are informational and individual
// frames carry their own sizes.
type Header struct {
	Signature      [4]byte // "SPR" followed by one ignored byte.
	Width          uint16
	Height         uint16
	CenterX        uint16
	CenterY        uint16
	FrameCount     uint16
	ColorCount     uint16
	DirectionCount uint16
	Interval       uint16 // Display time of a frame, in 1/18 s ticks.
	Reserved       [6]uint16
}

// Color is a palette entry. Palette entries carry no alpha; transparency
// is stored per pixel.
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color. The color is fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Frame is a single decoded frame.
//
// Indices and Alpha are row-major and Width*Height long. A pixel with alpha
// 0 is transparent no matter what its index says.
type Frame struct {
	Width, Height    uint16
	OffsetX, OffsetY int16

	Indices []uint8
	Alpha   []uint8
}

// Placement returns where the frame is drawn relative to the sprite's
// pivot: its top-left corner sits at (-OffsetX, -OffsetY).
func (f *Frame) Placement() image.Rectangle {
	x, y := -int(f.OffsetX), -int(f.OffsetY)
	return image.Rect(x, y, x+int(f.Width), y+int(f.Height))
}

// File is a decoded sprite. It holds no reference to the buffer it was
// decoded from.
type File struct {
	Header  Header
	Palette []Color
	Frames  []Frame
}

type directoryEntry struct {
	Offset uint32 // Relative to the end of the directory.
	Length uint32 // Not trusted; frames are sized by decoding.
}

type frameHeader struct {
	Width, Height    uint16
	OffsetX, OffsetY int16
}

// DecodeAll reads a whole sprite file from r and decodes it.
func DecodeAll(r io.Reader) (*File, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "spr: reading sprite")
	}
	return DecodeBytes(b)
}

// DecodeBytes decodes a sprite held in memory, such as an archive payload.
func DecodeBytes(b []byte) (*File, error) {
	r := bytes.NewReader(b)
	s := &File{}

	dir, base, err := readHead(r, &s.Header, &s.Palette)
	if err != nil {
		return nil, err
	}

	s.Frames = make([]Frame, len(dir))
	for i, d := range dir {
		if err := decodeFrame(r, base+int64(d.Offset), &s.Frames[i]); err != nil {
			return nil, errors.Wrapf(err, "frame %d of %d at offset %d", i, len(dir), base+int64(d.Offset))
		}
	}
	glog.V(2).Infof("spr: decoded %d frames, %d colors, %d directions", len(s.Frames), len(s.Palette), s.Header.DirectionCount)
	return s, nil
}

// readHead reads everything up to the frame data: the header, the palette
// and the frame directory. It returns the directory and the stream position
// frame offsets are relative to.
func readHead(r *bytes.Reader, h *Header, pal *[]Color) ([]directoryEntry, int64, error) {
	if err := binary.Read(r, binary.LittleEndian, h); err != nil {
		return nil, 0, errors.Wrapf(ErrFormat, "could not read header: %v", err)
	}
	if !bytes.Equal(h.Signature[:3], []byte("SPR")) {
		return nil, 0, errors.Wrapf(ErrFormat, "bad signature %q", h.Signature[:])
	}

	*pal = make([]Color, h.ColorCount)
	if err := binary.Read(r, binary.LittleEndian, *pal); err != nil {
		return nil, 0, errors.Wrapf(ErrFormat, "could not read palette of %d colors: %v", h.ColorCount, err)
	}

	dir := make([]directoryEntry, h.FrameCount)
	if err := binary.Read(r, binary.LittleEndian, dir); err != nil {
		return nil, 0, errors.Wrapf(ErrFormat, "could not read directory of %d frames: %v", h.FrameCount, err)
	}

	base, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, err
	}
	return dir, base, nil
}

func decodeFrame(r *bytes.Reader, off int64, f *Frame) error {
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return errors.Wrapf(ErrFormat, "could not seek: %v", err)
	}

	var fh frameHeader
	if err := binary.Read(r, binary.LittleEndian, &fh); err != nil {
		return errors.Wrapf(ErrFormat, "could not read frame header: %v", err)
	}
	total := int(fh.Width) * int(fh.Height)
	if total > MaxFramePixels {
		return errors.Wrapf(ErrFormat, "frame of %dx%d pixels is too large", fh.Width, fh.Height)
	}

	f.Width, f.Height = fh.Width, fh.Height
	f.OffsetX, f.OffsetY = fh.OffsetX, fh.OffsetY
	f.Indices = make([]uint8, total)
	f.Alpha = make([]uint8, total)

	px := 0
	for px < total {
		count, err := r.ReadByte()
		if err != nil {
			return errors.Wrapf(ErrFormat, "run header at pixel %d: %v", px, err)
		}
		alpha, err := r.ReadByte()
		if err != nil {
			return errors.Wrapf(ErrFormat, "run header at pixel %d: %v", px, err)
		}

		if alpha == 0 {
			// Transparent: skip count pixels, leaving them at index 0, alpha 0.
			px += int(count)
			continue
		}
		for i := 0; i < int(count) && px < total; i++ {
			idx, err := r.ReadByte()
			if err != nil {
				return errors.Wrapf(ErrFormat, "run data at pixel %d: %v", px, err)
			}
			f.Indices[px] = idx
			f.Alpha[px] = alpha
			px++
		}
	}
	return nil
}
