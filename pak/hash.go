package pak

import (
	"strings"

	"github.com/golang/glog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// defaultPathEncoding is the text encoding archive paths were hashed in by
// the original packer. Paths are hashed byte by byte, so non-ASCII segments
// only match when transcoded the same way.
var defaultPathEncoding encoding.Encoding = simplifiedchinese.GBK

// NormalizePath converts forward slashes to backslashes and makes sure the
// path starts with a backslash. Case is left alone; folding happens
// while hashing.
func NormalizePath(path string) string {
	path = strings.Replace(path, "/", `\`, -1)
	if !strings.HasPrefix(path, `\`) {
		path = `\` + path
	}
	return path
}

// Hash computes the archive key of path.
//
// The path is normalized with NormalizePath and transcoded to GBK (code page
// 936) before hashing. Runes GBK cannot represent make Hash fall back to
// hashing the UTF-8 bytes; such paths will not be found in archives built
// by the original tools anyway.
func Hash(path string) uint32 {
	return HashWithEncoding(defaultPathEncoding, path)
}

// HashWithEncoding is like Hash, but transcodes the path with enc. A nil enc
// hashes the UTF-8 bytes of the normalized path.
func HashWithEncoding(enc encoding.Encoding, path string) uint32 {
	p := NormalizePath(path)
	if enc == nil {
		return hashNormalized([]byte(p))
	}
	b, err := enc.NewEncoder().Bytes([]byte(p))
	if err != nil {
		glog.V(2).Infof("pak: cannot transcode %q for hashing, using utf-8 bytes: %v", p, err)
		return hashNormalized([]byte(p))
	}
	return hashNormalized(b)
}

// HashBytes computes the archive key of a path that is already in the
// archive's text encoding. Slashes and the leading backslash are normalized
// the same way as in NormalizePath.
func HashBytes(path []byte) uint32 {
	p := make([]byte, 0, len(path)+1)
	if len(path) == 0 || (path[0] != '\\' && path[0] != '/') {
		p = append(p, '\\')
	}
	for _, b := range path {
		if b == '/' {
			b = '\\'
		}
		p = append(p, b)
	}
	return hashNormalized(p)
}

// hashNormalized is the packer's file name hash. Bytes are sign-extended
// before multiplying: archives were built with a signed char, so bytes of
// 0x80 and above contribute negative terms.
func hashNormalized(p []byte) uint32 {
	var id uint32
	var index int32
	for _, b := range p {
		index++
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		term := uint32(index * int32(int8(b)))
		id = (id + term) % 0x8000000b
		id *= 0xffffffef
	}
	return id ^ 0x12345678
}
