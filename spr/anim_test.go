package spr

import (
	"bytes"
	"image"
	"image/gif"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileWithFrames(n int, dirs, interval uint16) *File {
	s := &File{
		Header:  Header{FrameCount: uint16(n), DirectionCount: dirs, Interval: interval},
		Palette: []Color{{R: 0xff}, {G: 0xff}},
	}
	for i := 0; i < n; i++ {
		s.Frames = append(s.Frames, Frame{
			Width: 1, Height: 1,
			Indices: []uint8{uint8(i % 2)},
			Alpha:   []uint8{255},
		})
	}
	return s
}

func TestDirections(t *testing.T) {
	s := fileWithFrames(8, 2, 0)
	assert.Equal(t, 2, s.Directions())
	assert.Equal(t, 4, s.FramesPerDirection())
	assert.Equal(t, []int{4, 5, 6, 7}, s.DirectionFrames(1))
	assert.Empty(t, s.DirectionFrames(2))
	assert.Empty(t, s.DirectionFrames(-1))

	dir, step := s.Direction(5)
	assert.Equal(t, 1, dir)
	assert.Equal(t, 1, step)
}

func TestDirectionsUndeclared(t *testing.T) {
	s := fileWithFrames(3, 0, 0)
	assert.Equal(t, 1, s.Directions())
	assert.Equal(t, 3, s.FramesPerDirection())
	assert.Equal(t, []int{0, 1, 2}, s.DirectionFrames(0))
}

func TestDirectionsFewerFramesThanDirections(t *testing.T) {
	s := fileWithFrames(3, 8, 0)
	assert.Equal(t, 1, s.FramesPerDirection())
	assert.Equal(t, []int{2}, s.DirectionFrames(2))
	assert.Empty(t, s.DirectionFrames(3))
}

func TestDirectionsUneven(t *testing.T) {
	// Seven frames over two directions: the last frame is left over.
	s := fileWithFrames(7, 2, 0)
	assert.Equal(t, 3, s.FramesPerDirection())
	assert.Equal(t, []int{3, 4, 5}, s.DirectionFrames(1))
}

func TestFrameDelay(t *testing.T) {
	assert.Equal(t, 50*time.Millisecond, fileWithFrames(1, 1, 0).FrameDelay())
	assert.Equal(t, 500*time.Millisecond, fileWithFrames(1, 1, 9).FrameDelay())
	assert.Equal(t, time.Second, fileWithFrames(1, 1, 18).FrameDelay())
}

func TestFrameAt(t *testing.T) {
	s := fileWithFrames(8, 2, 9) // 500ms per frame, 4 frames per direction.
	for _, tc := range []struct {
		dir     int
		elapsed time.Duration
		want    int
	}{
		{0, 0, 0},
		{0, 499 * time.Millisecond, 0},
		{0, 500 * time.Millisecond, 1},
		{0, 2 * time.Second, 0},
		{1, 0, 4},
		{1, 1750 * time.Millisecond, 7},
		{1, -time.Second, 4},
	} {
		got, ok := s.FrameAt(tc.dir, tc.elapsed)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got, "dir %d at %v", tc.dir, tc.elapsed)
	}
	_, ok := s.FrameAt(2, 0)
	assert.False(t, ok)
}

func TestDirectionGIF(t *testing.T) {
	s := fileWithFrames(4, 2, 9)
	s.Frames[2] = Frame{
		Width: 2, Height: 2, OffsetX: 1, OffsetY: 1,
		Indices: []uint8{0, 1, 1, 0},
		Alpha:   []uint8{255, 255, 0, 255},
	}
	s.Frames[3] = Frame{
		Width: 3, Height: 1,
		Indices: []uint8{1, 1, 1},
		Alpha:   []uint8{255, 255, 255},
	}

	g, err := s.DirectionGIF(1)
	require.NoError(t, err)
	require.Len(t, g.Image, 2)
	assert.Equal(t, []int{50, 50}, g.Delay)
	for _, img := range g.Image {
		// Union of (-1,-1)-(1,1) and (0,0)-(3,1), moved to the origin.
		assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
		assert.Equal(t, uint8(0), img.ColorIndexAt(3, 0), "uncovered pixel must be transparent")
	}

	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))

	_, err = s.DirectionGIF(5)
	assert.Error(t, err)
}
