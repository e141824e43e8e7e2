package export

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"unicode/utf8"

	"github.com/danmuck/captainctl/internal/frame"
)

var ErrTooLarge = errors.New("export: vector too long for rds")

// R serialization (XDR, format version 2) type codes and flag bits.
const (
	sexpSym    = 1
	sexpList   = 2
	sexpChar   = 9
	sexpInt    = 13
	sexpReal   = 14
	sexpStr    = 16
	sexpVec    = 19
	sexpNilVal = 254

	flagObject = 1 << 8
	flagAttr   = 1 << 9
	flagTag    = 1 << 10

	charUTF8  = 1 << 3 << 12
	charASCII = 1 << 6 << 12

	rdsVersion    = 2
	rdsWriter     = 3<<16 | 6<<8 | 3 // R 3.6.3
	rdsMinReader  = 2<<16 | 3<<8     // R 2.3.0
	naInteger     = math.MinInt32
	maxRVectorLen = math.MaxInt32
)

// WriteRDS saves f as a gzip-compressed R data.frame readable with readRDS.
func WriteRDS(path string, f *frame.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create rds: %w", err)
	}
	if err := EncodeRDS(file, f); err != nil {
		file.Close()
		return fmt.Errorf("write rds (%s): %w", path, err)
	}
	return file.Close()
}

// EncodeRDS writes the gzip-compressed serialization of f to w.
func EncodeRDS(w io.Writer, f *frame.Frame) error {
	gz := gzip.NewWriter(w)
	enc := &rdsEncoder{w: bufio.NewWriter(gz)}
	enc.dataFrame(f)
	if enc.err != nil {
		return enc.err
	}
	if err := enc.w.Flush(); err != nil {
		return err
	}
	return gz.Close()
}

type rdsEncoder struct {
	w   *bufio.Writer
	err error
}

func (e *rdsEncoder) putInt(v int32) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.BigEndian, v)
}

func (e *rdsEncoder) putFloat(v float64) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.BigEndian, math.Float64bits(v))
}

func (e *rdsEncoder) raw(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *rdsEncoder) length(n int) {
	if n > maxRVectorLen {
		if e.err == nil {
			e.err = fmt.Errorf("%w: %d", ErrTooLarge, n)
		}
		return
	}
	e.putInt(int32(n))
}

func (e *rdsEncoder) header() {
	e.raw([]byte("X\n"))
	e.putInt(rdsVersion)
	e.putInt(rdsWriter)
	e.putInt(rdsMinReader)
}

func (e *rdsEncoder) dataFrame(f *frame.Frame) {
	e.header()
	cols := f.Columns()
	e.putInt(sexpVec | flagObject | flagAttr)
	e.length(len(cols))
	for _, c := range cols {
		e.column(c)
	}

	e.tag("names")
	e.putStrings(f.Names())
	e.tag("class")
	e.putStrings([]string{"data.frame"})
	e.tag("row.names")
	if rows := f.Rows(); rows > 0 {
		e.putInts([]int32{naInteger, int32(-rows)})
	} else {
		e.putInts(nil)
	}
	e.putInt(sexpNilVal)
}

// tag opens one tagged pairlist cell of an attribute list.
func (e *rdsEncoder) tag(name string) {
	e.putInt(sexpList | flagTag)
	e.putInt(sexpSym)
	e.putChar(name)
}

func (e *rdsEncoder) column(c frame.Column) {
	switch c.Kind {
	case frame.Int:
		e.putInts(c.Ints)
	case frame.Float:
		e.putInt(sexpReal)
		e.length(len(c.Floats))
		for _, v := range c.Floats {
			e.putFloat(v)
		}
	default:
		e.putStrings(c.Strings)
	}
}

func (e *rdsEncoder) putInts(v []int32) {
	e.putInt(sexpInt)
	e.length(len(v))
	for _, x := range v {
		e.putInt(x)
	}
}

func (e *rdsEncoder) putStrings(v []string) {
	e.putInt(sexpStr)
	e.length(len(v))
	for _, s := range v {
		e.putChar(s)
	}
}

func (e *rdsEncoder) putChar(s string) {
	flags := int32(sexpChar)
	if isASCII(s) {
		flags |= charASCII
	} else if utf8.ValidString(s) {
		flags |= charUTF8
	}
	e.putInt(flags)
	e.length(len(s))
	e.raw([]byte(s))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
