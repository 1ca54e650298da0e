package pak

// This file contains code directly related to decoding the
// pak file format.

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"

	"badc0de.net/pkg/go-jx/ucl"
)

// Signature is the magic number every archive starts with ("PACK").
const Signature = 0x4b434150

const (
	headerSize = 24
	recordSize = 16
)

var (
	// ErrFormat is returned for archives with a bad signature or a truncated
	// header, index or payload.
	ErrFormat = errors.New("pak: invalid archive")
	// ErrNotFound is returned by ReadFile when no entry has the path's hash.
	ErrNotFound = errors.New("pak: entry not found")
	// ErrUnsupportedCompression accompanies the raw stored bytes of entries
	// compressed with a scheme this package cannot decode.
	ErrUnsupportedCompression = errors.New("pak: unsupported compression")
)

// Compression identifies how an entry's payload is stored.
type Compression uint8

const (
	CompressionNone  = Compression(0)
	CompressionUCL   = Compression(1)
	CompressionBZip2 = Compression(2) // Used by server-side tools; not supported.
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionUCL:
		return "ucl"
	case CompressionBZip2:
		return "bzip2"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Header is the fixed header at the start of an archive.
//
// The packer reserves 12 bytes after CRC32, but readers only ever load the
// first 24 bytes of the file; Reserved holds the part of that area that is
// read.
type Header struct {
	Signature   uint32
	Count       uint32
	IndexOffset uint32
	DataOffset  uint32 // Not used for reading.
	CRC32       uint32 // Not verified.
	Reserved    [4]byte
}

// Entry is a single index record.
//
// The low 24 bits of CompressFlag hold the stored (possibly compressed)
// size and the high 8 bits the compression type.
type Entry struct {
	ID           uint32
	Offset       uint32
	OriginalSize uint32
	CompressFlag uint32
}

// StoredSize returns the number of payload bytes kept in the archive.
func (e Entry) StoredSize() uint32 {
	return e.CompressFlag & 0x00ffffff
}

// Compression returns how the payload is stored.
func (e Entry) Compression() Compression {
	return Compression((e.CompressFlag >> 24) & 0xff)
}

func (e Entry) String() string {
	return fmt.Sprintf("%08X@%d (%d->%d bytes, %v)", e.ID, e.Offset, e.StoredSize(), e.OriginalSize, e.Compression())
}

// Archive is an open .pak file and its index.
//
// The index is built once by Open or NewArchive and never modified, and
// payloads are read with ReadAt, so an Archive may be used from several
// goroutines.
type Archive struct {
	name   string
	r      io.ReaderAt
	closer io.Closer

	header  Header
	entries map[uint32]Entry
	enc     encoding.Encoding
}

// Option configures Open, NewArchive and OpenSet.
type Option func(*Archive)

// WithPathEncoding sets the text encoding paths are transcoded to before
// hashing. The default is GBK.
func WithPathEncoding(enc encoding.Encoding) Option {
	return func(a *Archive) {
		a.enc = enc
	}
}

// Open opens the archive at path and loads its index.
func Open(path string, opts ...Option) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "pak: opening %q", path)
	}
	a, err := NewArchive(f, path, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.closer = f
	return a, nil
}

// NewArchive reads the header and index of an archive available through r.
// The name is only used in error messages and logs.
func NewArchive(r io.ReaderAt, name string, opts ...Option) (*Archive, error) {
	a := &Archive{
		name: name,
		r:    r,
		enc:  defaultPathEncoding,
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := binary.Read(io.NewSectionReader(r, 0, headerSize), binary.LittleEndian, &a.header); err != nil {
		return nil, errors.Wrapf(ErrFormat, "%s: could not read header: %v", name, err)
	}
	if a.header.Signature != Signature {
		return nil, errors.Wrapf(ErrFormat, "%s: bad signature; got %08x, want %08x", name, a.header.Signature, Signature)
	}

	if err := a.loadIndex(); err != nil {
		return nil, err
	}
	glog.V(1).Infof("pak: opened %s: %d records, %d distinct ids", name, a.header.Count, len(a.entries))
	return a, nil
}

func (a *Archive) loadIndex() error {
	count := a.header.Count
	hint := count
	if hint > 1<<16 {
		hint = 1 << 16
	}
	a.entries = make(map[uint32]Entry, hint)

	indexSize := int64(count) * recordSize
	br := bufio.NewReader(io.NewSectionReader(a.r, int64(a.header.IndexOffset), indexSize))

	var rec [recordSize]byte
	duplicates := 0
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			return errors.Wrapf(ErrFormat, "%s: could not read index record %d of %d at offset %d: %v",
				a.name, i, count, int64(a.header.IndexOffset)+int64(i)*recordSize, err)
		}
		e := Entry{
			ID:           binary.LittleEndian.Uint32(rec[0:4]),
			Offset:       binary.LittleEndian.Uint32(rec[4:8]),
			OriginalSize: binary.LittleEndian.Uint32(rec[8:12]),
			CompressFlag: binary.LittleEndian.Uint32(rec[12:16]),
		}
		if _, ok := a.entries[e.ID]; ok {
			// The packer resolves collisions the same way: the later record wins.
			duplicates++
			glog.V(2).Infof("pak: %s: duplicate id %08X in record %d replaces earlier entry", a.name, e.ID, i)
		}
		a.entries[e.ID] = e
	}
	if duplicates > 0 {
		glog.V(1).Infof("pak: %s: %d duplicate ids", a.name, duplicates)
	}
	return nil
}

// Name returns the name the archive was opened with.
func (a *Archive) Name() string {
	return a.name
}

// Header returns the archive header.
func (a *Archive) Header() Header {
	return a.header
}

// Len returns the number of distinct entries in the index.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Hash returns the key path is stored under in this archive.
func (a *Archive) Hash(path string) uint32 {
	return HashWithEncoding(a.enc, path)
}

// Find looks up the entry stored under path. A miss is reported with false;
// it is an expected outcome, not an error.
func (a *Archive) Find(path string) (Entry, bool) {
	return a.FindID(a.Hash(path))
}

// FindID looks up an entry by its hash key.
func (a *Archive) FindID(id uint32) (Entry, bool) {
	e, ok := a.entries[id]
	return e, ok
}

// Entries returns all entries ordered by payload offset.
func (a *Archive) Entries() []Entry {
	out := make([]Entry, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Offset != out[j].Offset {
			return out[i].Offset < out[j].Offset
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Read returns the decoded payload of e.
//
// Stored entries are returned as is, and UCL entries are decompressed to
// OriginalSize bytes. For any other compression type Read returns the raw
// stored bytes together with an error wrapping ErrUnsupportedCompression;
// callers that can use undecoded data may check for it with errors.Is.
func (a *Archive) Read(e Entry) ([]byte, error) {
	stored := make([]byte, e.StoredSize())
	if _, err := io.ReadFull(io.NewSectionReader(a.r, int64(e.Offset), int64(len(stored))), stored); err != nil {
		return nil, errors.Wrapf(ErrFormat, "%s: entry %08X: could not read %d bytes at offset %d: %v",
			a.name, e.ID, len(stored), e.Offset, err)
	}

	switch e.Compression() {
	case CompressionNone:
		if len(stored) != int(e.OriginalSize) {
			glog.V(1).Infof("pak: %s: stored entry %08X has %d bytes, header says %d", a.name, e.ID, len(stored), e.OriginalSize)
		}
		return stored, nil
	case CompressionUCL:
		out, err := ucl.Decompress(stored, int(e.OriginalSize))
		if err != nil {
			return nil, errors.Wrapf(err, "%s: entry %08X at offset %d", a.name, e.ID, e.Offset)
		}
		if len(out) != int(e.OriginalSize) {
			glog.Warningf("pak: %s: entry %08X decompressed to %d bytes, want %d", a.name, e.ID, len(out), e.OriginalSize)
		}
		return out, nil
	default:
		glog.Warningf("pak: %s: entry %08X uses %v compression; returning stored bytes", a.name, e.ID, e.Compression())
		return stored, errors.Wrapf(ErrUnsupportedCompression, "%s: entry %08X: %v", a.name, e.ID, e.Compression())
	}
}

// ReadFile finds path and returns its decoded payload. A miss returns an
// error wrapping ErrNotFound.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	e, ok := a.Find(path)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s: %q (%08X)", a.name, path, a.Hash(path))
	}
	return a.Read(e)
}

// Close releases the underlying file if the archive was opened with Open.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
