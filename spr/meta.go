package spr

// FrameMeta describes one frame for tools that lay out exported frames:
// its number, size and anchor offset.
type FrameMeta struct {
	ID      int `json:"id"`
	Width   int `json:"w"`
	Height  int `json:"h"`
	OffsetX int `json:"off_x"`
	OffsetY int `json:"off_y"`
}

// Meta returns a FrameMeta for every frame, in frame order.
func (s *File) Meta() []FrameMeta {
	out := make([]FrameMeta, len(s.Frames))
	for i, f := range s.Frames {
		out[i] = FrameMeta{
			ID:      i,
			Width:   int(f.Width),
			Height:  int(f.Height),
			OffsetX: int(f.OffsetX),
			OffsetY: int(f.OffsetY),
		}
	}
	return out
}
