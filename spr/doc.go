// Package spr implements a decoder for the client's .spr sprite files.
//
// A sprite file holds a shared RGB palette and a number of frames. Each
// frame has its own size and an anchor offset, and its pixels are stored as
// runs of palette indices with a per-run alpha value. Frames are ordered
// direction-major: all frames for the first facing direction, then the
// second, and so on.
//
// Sprites normally come out of a .pak archive:
//
//	b, err := set.ReadFile(`\spr\npcres\man\body01.spr`)
//	if err != nil {
//		return err
//	}
//	s, err := spr.DecodeBytes(b)
//	if err != nil {
//		return err
//	}
//	img, err := s.FrameImage(0)
//
// Importing the package also registers the format with the image package,
// so image.Decode returns the first frame of a sprite.
package spr
