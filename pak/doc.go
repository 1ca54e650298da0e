// Package pak reads JX client .pak archives.
//
// An archive is a 24 byte header followed by entry payloads and an index
// table of 16 byte records. Records carry no file names: an entry is
// addressed only by the 32 bit hash of its path (see Hash), so two paths
// hashing to the same key cannot be told apart, and a path can only be
// found if the caller already knows it.
//
// Payloads are either stored or compressed with UCL's NRV2B scheme (see
// package ucl). Entries using other compression types are returned
// undecoded together with ErrUnsupportedCompression.
//
//	a, err := pak.Open("data/pak/spr.pak")
//	if err != nil {
//		return err
//	}
//	defer a.Close()
//	b, err := a.ReadFile(`\spr\npcres\man\body01.spr`)
package pak
