package spr

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-jx/ttesting"
)

// minimalSprite is a 2x2 single-frame sprite: one transparent pixel followed
// by three opaque pixels of palette color 0.
func minimalSprite() *ttesting.SprBuilder {
	return &ttesting.SprBuilder{
		Width: 2, Height: 2, CenterX: 1, CenterY: 1,
		DirectionCount: 1, Interval: 3,
		Palette: [][3]byte{{0xff, 0x00, 0x00}},
		Frames: []ttesting.SprFrame{{
			Width: 2, Height: 2, OffsetX: 1, OffsetY: 2,
			RLE: []byte{1, 0, 3, 255, 0, 0, 0},
		}},
	}
}

func TestDecodeMinimal(t *testing.T) {
	s, err := DecodeBytes(minimalSprite().Bytes())
	require.NoError(t, err)

	assert.Equal(t, [4]byte{'S', 'P', 'R', 0}, s.Header.Signature)
	assert.Equal(t, uint16(1), s.Header.FrameCount)
	assert.Equal(t, uint16(1), s.Header.ColorCount)
	assert.Equal(t, uint16(3), s.Header.Interval)
	assert.Equal(t, []Color{{R: 0xff}}, s.Palette)

	require.Len(t, s.Frames, 1)
	f := s.Frames[0]
	assert.Equal(t, uint16(2), f.Width)
	assert.Equal(t, uint16(2), f.Height)
	assert.Equal(t, int16(1), f.OffsetX)
	assert.Equal(t, int16(2), f.OffsetY)
	ttesting.AssertEqualBytes(t, "indices", f.Indices, []byte{0, 0, 0, 0})
	ttesting.AssertEqualBytes(t, "alpha", f.Alpha, []byte{0, 255, 255, 255})
}

func TestDecodeBadSignature(t *testing.T) {
	b := minimalSprite()
	b.Signature = [4]byte{'S', 'P', 'Q', 0}
	_, err := DecodeBytes(b.Bytes())
	assert.True(t, errors.Is(err, ErrFormat), "got %v", err)
}

func TestDecodeIgnoresFourthSignatureByte(t *testing.T) {
	b := minimalSprite()
	b.Signature = [4]byte{'S', 'P', 'R', 'x'}
	_, err := DecodeBytes(b.Bytes())
	assert.NoError(t, err)
}

func TestDecodeEmpty(t *testing.T) {
	s, err := DecodeBytes((&ttesting.SprBuilder{Width: 10, Height: 20}).Bytes())
	require.NoError(t, err)
	assert.Empty(t, s.Palette)
	assert.Empty(t, s.Frames)
	assert.Equal(t, 0, s.FramesPerDirection())
	assert.Empty(t, s.Meta())
}

func TestDecodeTruncated(t *testing.T) {
	raw := minimalSprite().Bytes()
	for n := 0; n < len(raw); n++ {
		_, err := DecodeBytes(raw[:n])
		assert.True(t, errors.Is(err, ErrFormat), "prefix of %d bytes: got %v", n, err)
	}
}

func TestDecodeOpaqueRunTruncated(t *testing.T) {
	b := &ttesting.SprBuilder{
		Palette: [][3]byte{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}},
		Frames: []ttesting.SprFrame{{
			Width: 2, Height: 1,
			// The run claims three pixels; only two fit and the third index
			// byte is never read.
			RLE: []byte{3, 200, 1, 2},
		}},
	}
	s, err := DecodeBytes(b.Bytes())
	require.NoError(t, err)
	ttesting.AssertEqualBytes(t, "indices", s.Frames[0].Indices, []byte{1, 2})
	ttesting.AssertEqualBytes(t, "alpha", s.Frames[0].Alpha, []byte{200, 200})
}

func TestDecodeTransparentRunOvershoot(t *testing.T) {
	b := &ttesting.SprBuilder{
		Frames: []ttesting.SprFrame{{Width: 2, Height: 2, RLE: []byte{200, 0}}},
	}
	s, err := DecodeBytes(b.Bytes())
	require.NoError(t, err)
	ttesting.AssertEqualBytes(t, "alpha", s.Frames[0].Alpha, []byte{0, 0, 0, 0})
}

func TestDecodeMultipleFrames(t *testing.T) {
	b := &ttesting.SprBuilder{
		Palette: [][3]byte{{10, 20, 30}, {40, 50, 60}},
		Frames: []ttesting.SprFrame{
			{Width: 1, Height: 1, OffsetX: -3, OffsetY: 4, RLE: []byte{1, 255, 1}},
			{Width: 3, Height: 1, RLE: []byte{1, 0, 2, 128, 0, 1}},
		},
	}
	s, err := DecodeBytes(b.Bytes())
	require.NoError(t, err)
	require.Len(t, s.Frames, 2)

	assert.Equal(t, int16(-3), s.Frames[0].OffsetX)
	ttesting.AssertEqualBytes(t, "frame 0 indices", s.Frames[0].Indices, []byte{1})
	ttesting.AssertEqualBytes(t, "frame 1 indices", s.Frames[1].Indices, []byte{0, 0, 1})
	ttesting.AssertEqualBytes(t, "frame 1 alpha", s.Frames[1].Alpha, []byte{0, 128, 128})

	assert.Equal(t, image.Rect(3, -4, 4, -3), s.Frames[0].Placement())
	assert.Equal(t, image.Rect(0, 0, 3, 1), s.Frames[1].Placement())
}

func TestDecodeFrameTooLarge(t *testing.T) {
	b := &ttesting.SprBuilder{
		Frames: []ttesting.SprFrame{{Width: 0xffff, Height: 0xffff}},
	}
	_, err := DecodeBytes(b.Bytes())
	assert.True(t, errors.Is(err, ErrFormat), "got %v", err)
}

func TestDecodeIdempotent(t *testing.T) {
	raw := minimalSprite().Bytes()
	a, err := DecodeBytes(raw)
	require.NoError(t, err)
	b, err := DecodeAll(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFrameImage(t *testing.T) {
	b := &ttesting.SprBuilder{
		Palette: [][3]byte{{10, 20, 30}},
		Frames: []ttesting.SprFrame{{
			Width: 3, Height: 1,
			// Index 5 is past the end of the palette.
			RLE: []byte{1, 0, 2, 128, 0, 5},
		}},
	}
	s, err := DecodeBytes(b.Bytes())
	require.NoError(t, err)

	img, err := s.FrameImage(0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 1), img.Bounds())
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 128}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(2, 0))

	_, err = s.FrameImage(1)
	assert.Error(t, err)
	_, err = s.FrameImage(-1)
	assert.Error(t, err)
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := Color{R: 0xff, G: 0x80, B: 0}.RGBA()
	assert.Equal(t, []uint32{0xffff, 0x8080, 0, 0xffff}, []uint32{r, g, b, a})
}

func TestImageDecode(t *testing.T) {
	img, format, err := image.Decode(bytes.NewReader(minimalSprite().Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "spr", format)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())

	cfg, format, err := image.DecodeConfig(bytes.NewReader(minimalSprite().Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "spr", format)
	assert.Equal(t, 2, cfg.Width)
	assert.Equal(t, 2, cfg.Height)
}

func TestDecodeConfigNoFrames(t *testing.T) {
	cfg, err := DecodeConfig(bytes.NewReader((&ttesting.SprBuilder{Width: 10, Height: 20}).Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 20, cfg.Height)

	_, err = Decode(bytes.NewReader((&ttesting.SprBuilder{}).Bytes()))
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestMeta(t *testing.T) {
	s, err := DecodeBytes(minimalSprite().Bytes())
	require.NoError(t, err)
	assert.Equal(t, []FrameMeta{{ID: 0, Width: 2, Height: 2, OffsetX: 1, OffsetY: 2}}, s.Meta())
}
