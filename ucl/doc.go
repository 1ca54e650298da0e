// Package ucl implements a decompressor for the NRV2B bitstream format
// produced by the UCL compression library (8-bit bit buffer variant).
//
// Payloads in JX .pak archives flagged with compression type 1 are stored in
// this format. Only decompression is provided.
//
// The stream interleaves single control bits (packed MSB-first into bytes
// fetched on demand) with literal and offset bytes. Literals are announced by
// a 1 bit; matches carry a unary-prefixed offset code and a short length
// code. A match offset code of 2 repeats the previous offset. The stream ends
// with a match whose decoded offset is 0xFFFFFFFF.
package ucl
