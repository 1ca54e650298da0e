package ucl

import (
	"errors"
	"fmt"
)

var (
	// ErrInputOverrun is returned when the compressed stream ends before the
	// end-of-stream marker.
	ErrInputOverrun = errors.New("ucl: input overrun")
	// ErrOutputOverrun is returned when decoding would produce more bytes
	// than the declared output length.
	ErrOutputOverrun = errors.New("ucl: output overrun")
	// ErrLookbehindOverrun is returned when a match refers to data before the
	// start of the output, or the offset code is out of range.
	ErrLookbehindOverrun = errors.New("ucl: lookbehind overrun")
)

// Error describes where in the stream decompression failed.
//
// Err is one of ErrInputOverrun, ErrOutputOverrun or ErrLookbehindOverrun.
type Error struct {
	Err       error
	InputPos  int
	OutputPos int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (input byte %d, output byte %d)", e.Err, e.InputPos, e.OutputPos)
}

func (e *Error) Unwrap() error {
	return e.Err
}

const (
	maxOffsetCode = 0x00ffffff + 3
	farOffset     = 0x0d00
	endOfStream   = 0xffffffff

	// Declared sizes come from untrusted headers; beyond this the output
	// buffer grows as bytes are actually produced.
	maxPrealloc = 64 << 20
)

// decoder holds the state of a single NRV2B decompression run.
type decoder struct {
	src  []byte
	ilen int
	bb   uint32

	dst    []byte
	dstLen int
}

func (d *decoder) fail(err error) *Error {
	return &Error{Err: err, InputPos: d.ilen, OutputPos: len(d.dst)}
}

// getbit returns the next control bit. A new control byte is fetched once
// the seven low bits of the accumulator are exhausted; the trailing 1 bit
// inserted on fetch marks how many bits remain.
func (d *decoder) getbit() (uint32, error) {
	if d.bb&0x7f != 0 {
		d.bb *= 2
	} else {
		if d.ilen >= len(d.src) {
			return 0, d.fail(ErrInputOverrun)
		}
		d.bb = uint32(d.src[d.ilen])*2 + 1
		d.ilen++
	}
	return (d.bb >> 8) & 1, nil
}

// gamma reads a unary-prefixed binary number: each data bit is followed by
// a flag bit, and a set flag terminates the number. The accumulator starts
// at 1. Values above limit fail with ErrLookbehindOverrun when limit is
// non-zero.
func (d *decoder) gamma(limit uint32) (uint32, error) {
	v := uint32(1)
	for {
		b, err := d.getbit()
		if err != nil {
			return 0, err
		}
		v = v*2 + b
		if limit != 0 && v > limit {
			return 0, d.fail(ErrLookbehindOverrun)
		}
		stop, err := d.getbit()
		if err != nil {
			return 0, err
		}
		if stop != 0 {
			return v, nil
		}
	}
}

func (d *decoder) readByte() (byte, error) {
	if d.ilen >= len(d.src) {
		return 0, d.fail(ErrInputOverrun)
	}
	b := d.src[d.ilen]
	d.ilen++
	return b, nil
}

// copyMatch appends n bytes starting off bytes back from the end of the
// output. Source and destination may overlap, so bytes are copied one at a
// time and later bytes see the ones written earlier in the same match.
func (d *decoder) copyMatch(off, n int) {
	start := len(d.dst) - off
	for i := 0; i < n; i++ {
		d.dst = append(d.dst, d.dst[start+i])
	}
}

// Decompress decodes an NRV2B stream into at most dstLen bytes.
//
// Decoding stops at the end-of-stream marker; the returned slice may be
// shorter than dstLen if the marker arrives early, and callers that know the
// exact size should compare. Any failure is reported as an *Error wrapping
// one of the package's sentinel errors, and no partial output is returned.
func Decompress(src []byte, dstLen int) ([]byte, error) {
	if dstLen < 0 {
		return nil, fmt.Errorf("ucl: negative output length %d", dstLen)
	}
	c := dstLen
	if c > maxPrealloc {
		c = maxPrealloc
	}
	d := &decoder{
		src:    src,
		dst:    make([]byte, 0, c),
		dstLen: dstLen,
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.dst, nil
}

func (d *decoder) run() error {
	lastOff := uint32(1)
	for {
		// Literals.
		for {
			b, err := d.getbit()
			if err != nil {
				return err
			}
			if b == 0 {
				break
			}
			if d.ilen >= len(d.src) {
				return d.fail(ErrInputOverrun)
			}
			if len(d.dst) >= d.dstLen {
				return d.fail(ErrOutputOverrun)
			}
			d.dst = append(d.dst, d.src[d.ilen])
			d.ilen++
		}

		mOff, err := d.gamma(maxOffsetCode)
		if err != nil {
			return err
		}
		if mOff == 2 {
			mOff = lastOff
		} else {
			lo, err := d.readByte()
			if err != nil {
				return err
			}
			mOff = (mOff-3)*256 + uint32(lo)
			if mOff == endOfStream {
				return nil
			}
			mOff++
			lastOff = mOff
		}

		hi, err := d.getbit()
		if err != nil {
			return err
		}
		lo, err := d.getbit()
		if err != nil {
			return err
		}
		mLen := hi*2 + lo
		if mLen == 0 {
			if mLen, err = d.gamma(0); err != nil {
				return err
			}
			mLen += 2
		}
		if mOff > farOffset {
			mLen++
		}

		n := int(mLen) + 1
		if len(d.dst)+n > d.dstLen {
			return d.fail(ErrOutputOverrun)
		}
		if int64(mOff) > int64(len(d.dst)) {
			return d.fail(ErrLookbehindOverrun)
		}
		d.copyMatch(int(mOff), n)
	}
}
