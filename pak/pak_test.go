package pak

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-jx/ttesting"
	"badc0de.net/pkg/go-jx/ucl"
)

// uclABC is an NRV2B stream decoding to "abcabcabcXbcX".
var uclABC = []byte{0xec, 0x61, 0x62, 0x63, 0x02, 0xe6, 0x58, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x80, 0xff}

var testPaths = map[string][]byte{
	`\settings\serverlist.ini`:   []byte("[List]\r\nCount=1\r\n"),
	`\spr\npcres\man\body01.spr`: []byte("SPR\x00not really a sprite"),
	`\spr\人物\主角.spr`:             []byte{0, 1, 2, 3, 4, 5, 6, 7},
	`\empty.txt`:                 nil,
}

func buildArchive(t *testing.T) ([]byte, *Archive) {
	t.Helper()
	b := &ttesting.PakBuilder{}
	for p, data := range testPaths {
		b.Add(ttesting.PakEntry{ID: Hash(p), Data: data})
	}
	b.Add(ttesting.PakEntry{ID: Hash(`\packed.txt`), Data: uclABC, OriginalSize: 13, Compression: 1})
	b.Add(ttesting.PakEntry{ID: Hash(`\legacy.bz2`), Data: []byte("BZh9"), OriginalSize: 100, Compression: 2})
	raw := b.Bytes()

	a, err := NewArchive(bytes.NewReader(raw), "test.pak")
	require.NoError(t, err)
	return raw, a
}

func TestArchiveRoundTrip(t *testing.T) {
	raw, a := buildArchive(t)
	assert.Equal(t, len(testPaths)+2, a.Len())
	assert.Equal(t, uint32(len(testPaths)+2), a.Header().Count)

	for p, data := range testPaths {
		e, ok := a.Find(p)
		require.True(t, ok, "find %q", p)
		assert.Equal(t, Hash(p), e.ID)
		assert.Equal(t, uint32(len(data)), e.StoredSize())
		assert.Equal(t, uint32(len(data)), e.OriginalSize)
		assert.Equal(t, CompressionNone, e.Compression())
		assert.Equal(t, data, raw[e.Offset:e.Offset+e.StoredSize()])

		got, err := a.Read(e)
		require.NoError(t, err)
		ttesting.AssertEqualBytes(t, p, got, data)
	}
}

func TestArchiveFindMiss(t *testing.T) {
	_, a := buildArchive(t)
	_, ok := a.Find(`\never\inserted.txt`)
	assert.False(t, ok)

	_, err := a.ReadFile(`\never\inserted.txt`)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestArchiveFindCaseAndSlashes(t *testing.T) {
	_, a := buildArchive(t)
	b, err := a.ReadFile("SETTINGS/ServerList.ini")
	require.NoError(t, err)
	assert.Equal(t, testPaths[`\settings\serverlist.ini`], b)
}

func TestArchiveUCL(t *testing.T) {
	_, a := buildArchive(t)
	b, err := a.ReadFile(`\packed.txt`)
	require.NoError(t, err)
	assert.Equal(t, "abcabcabcXbcX", string(b))

	again, err := a.ReadFile(`\packed.txt`)
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestArchiveUCLCorrupt(t *testing.T) {
	raw := (&ttesting.PakBuilder{}).
		Add(ttesting.PakEntry{ID: 1, Data: uclABC[:len(uclABC)-1], OriginalSize: 13, Compression: 1}).
		Bytes()
	a, err := NewArchive(bytes.NewReader(raw), "corrupt.pak")
	require.NoError(t, err)

	e, ok := a.FindID(1)
	require.True(t, ok)
	b, err := a.Read(e)
	assert.Nil(t, b)
	assert.True(t, errors.Is(err, ucl.ErrInputOverrun), "got %v", err)
	assert.Contains(t, err.Error(), "corrupt.pak")
}

func TestArchiveUnsupportedCompression(t *testing.T) {
	_, a := buildArchive(t)
	b, err := a.ReadFile(`\legacy.bz2`)
	assert.True(t, errors.Is(err, ErrUnsupportedCompression))
	assert.Equal(t, "BZh9", string(b))
}

func TestArchiveEmpty(t *testing.T) {
	raw := (&ttesting.PakBuilder{}).Bytes()
	require.Len(t, raw, 24)
	a, err := NewArchive(bytes.NewReader(raw), "empty.pak")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Len())
	assert.Empty(t, a.Entries())
	_, ok := a.Find(`\a`)
	assert.False(t, ok)
}

func TestArchiveBadSignature(t *testing.T) {
	raw := (&ttesting.PakBuilder{Signature: 0x12345678}).Bytes()
	_, err := NewArchive(bytes.NewReader(raw), "bad.pak")
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestArchiveTruncated(t *testing.T) {
	raw, _ := buildArchive(t)

	_, err := NewArchive(bytes.NewReader(raw[:10]), "short-header.pak")
	assert.True(t, errors.Is(err, ErrFormat), "short header: %v", err)

	_, err = NewArchive(bytes.NewReader(raw[:len(raw)-1]), "short-index.pak")
	assert.True(t, errors.Is(err, ErrFormat), "short index: %v", err)
}

func TestArchiveTruncatedPayload(t *testing.T) {
	_, a := buildArchive(t)
	_, err := a.Read(Entry{ID: 7, Offset: 1 << 20, OriginalSize: 4, CompressFlag: 4})
	assert.True(t, errors.Is(err, ErrFormat))
}

func TestArchiveDuplicateLastWins(t *testing.T) {
	raw := (&ttesting.PakBuilder{}).
		Add(ttesting.PakEntry{ID: 42, Data: []byte("first")}).
		Add(ttesting.PakEntry{ID: 42, Data: []byte("second")}).
		Bytes()
	a, err := NewArchive(bytes.NewReader(raw), "dup.pak")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Len())

	e, ok := a.FindID(42)
	require.True(t, ok)
	b, err := a.Read(e)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
}

func TestArchiveEntriesSorted(t *testing.T) {
	_, a := buildArchive(t)
	entries := a.Entries()
	require.Len(t, entries, a.Len())
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].Offset, entries[i].Offset)
	}
}

func TestEntryFlags(t *testing.T) {
	e := Entry{CompressFlag: 0x01001234}
	assert.Equal(t, uint32(0x1234), e.StoredSize())
	assert.Equal(t, CompressionUCL, e.Compression())
	assert.Equal(t, "ucl", e.Compression().String())
	assert.Equal(t, "unknown(9)", Compression(9).String())
}

func TestOpenFile(t *testing.T) {
	raw, _ := buildArchive(t)
	p := filepath.Join(t.TempDir(), "test.pak")
	require.NoError(t, os.WriteFile(p, raw, 0644))

	a, err := Open(p)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, p, a.Name())

	b, err := a.ReadFile(`\spr\人物\主角.spr`)
	require.NoError(t, err)
	assert.Equal(t, testPaths[`\spr\人物\主角.spr`], b)

	_, err = Open(filepath.Join(t.TempDir(), "missing.pak"))
	assert.Error(t, err)
}
