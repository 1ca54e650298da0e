package ttesting

import (
	"bytes"
	"encoding/binary"

	"github.com/bradfitz/iter"
)

// PakEntry describes one payload for PakBuilder.
//
// Data is written as is. CompressFlag is derived from len(Data) and
// Compression; OriginalSize defaults to len(Data) when zero.
type PakEntry struct {
	ID           uint32
	Data         []byte
	OriginalSize uint32
	Compression  uint8
}

// PakBuilder assembles synthetic .pak archives: a 24 byte header, the
// payloads in order, then the index.
type PakBuilder struct {
	Signature uint32
	Entries   []PakEntry
}

// Add appends an entry and returns the builder.
func (b *PakBuilder) Add(e PakEntry) *PakBuilder {
	b.Entries = append(b.Entries, e)
	return b
}

// Bytes returns the encoded archive.
func (b *PakBuilder) Bytes() []byte {
	sig := b.Signature
	if sig == 0 {
		sig = 0x4b434150
	}
	buf := &bytes.Buffer{}
	buf.Write(make([]byte, 24))

	type record struct{ ID, Offset, OriginalSize, CompressFlag uint32 }
	records := make([]record, 0, len(b.Entries))
	for _, e := range b.Entries {
		orig := e.OriginalSize
		if orig == 0 {
			orig = uint32(len(e.Data))
		}
		records = append(records, record{
			ID:           e.ID,
			Offset:       uint32(buf.Len()),
			OriginalSize: orig,
			CompressFlag: uint32(e.Compression)<<24 | uint32(len(e.Data))&0x00ffffff,
		})
		buf.Write(e.Data)
	}
	indexOffset := uint32(buf.Len())
	for _, r := range records {
		binary.Write(buf, binary.LittleEndian, r)
	}

	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[0:], sig)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(records)))
	binary.LittleEndian.PutUint32(out[8:], indexOffset)
	binary.LittleEndian.PutUint32(out[12:], 24)
	return out
}

// SprFrame describes one frame for SprBuilder. RLE is the raw run stream
// written after the frame header.
type SprFrame struct {
	Width, Height    uint16
	OffsetX, OffsetY int16
	RLE              []byte
}

// SprBuilder assembles synthetic .spr sprites.
type SprBuilder struct {
	Signature      [4]byte
	Width, Height  uint16
	CenterX        uint16
	CenterY        uint16
	DirectionCount uint16
	Interval       uint16
	Palette        [][3]byte
	Frames         []SprFrame
}

// Bytes returns the encoded sprite. Frames are laid out back to back after
// the directory.
func (b *SprBuilder) Bytes() []byte {
	sig := b.Signature
	if sig == ([4]byte{}) {
		sig = [4]byte{'S', 'P', 'R', 0}
	}
	buf := &bytes.Buffer{}
	buf.Write(sig[:])
	for _, v := range []uint16{
		b.Width, b.Height, b.CenterX, b.CenterY,
		uint16(len(b.Frames)), uint16(len(b.Palette)), b.DirectionCount, b.Interval,
	} {
		binary.Write(buf, binary.LittleEndian, v)
	}
	// reserved
	for range iter.N(6) {
		binary.Write(buf, binary.LittleEndian, uint16(0))
	}
	for _, c := range b.Palette {
		buf.Write(c[:])
	}

	data := &bytes.Buffer{}
	for _, f := range b.Frames {
		start := data.Len()
		binary.Write(data, binary.LittleEndian, struct {
			Width, Height    uint16
			OffsetX, OffsetY int16
		}{f.Width, f.Height, f.OffsetX, f.OffsetY})
		data.Write(f.RLE)
		binary.Write(buf, binary.LittleEndian, uint32(start))
		binary.Write(buf, binary.LittleEndian, uint32(data.Len()-start))
	}
	buf.Write(data.Bytes())
	return buf.Bytes()
}
