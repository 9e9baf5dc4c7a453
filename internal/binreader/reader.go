// Package binreader decodes the big-endian primitives and length-prefixed
// vectors that make up a class file, archive manifest, and bytecode stream.
package binreader

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Reader wraps an io.Reader with big-endian primitive decoding and position
// tracking, needed so instructions can record their original byte offset.
type Reader struct {
	r         *bufio.Reader
	bytesRead int64
}

// New wraps r for big-endian decoding.
func New(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Pos returns the number of bytes consumed so far.
func (br *Reader) Pos() int64 {
	return br.bytesRead
}

// ReadN reads exactly n bytes.
func (br *Reader) ReadN(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(br.r, buf)
	br.bytesRead += int64(read)
	if err != nil {
		return nil, fmt.Errorf("binreader: reading %d bytes: %w", n, err)
	}
	return buf, nil
}

// U1 reads an unsigned 8-bit integer.
func (br *Reader) U1() (uint8, error) {
	b, err := br.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("binreader: reading u1: %w", err)
	}
	br.bytesRead++
	return b, nil
}

// U2 reads a big-endian unsigned 16-bit integer.
func (br *Reader) U2() (uint16, error) {
	buf, err := br.ReadN(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// U4 reads a big-endian unsigned 32-bit integer.
func (br *Reader) U4() (uint32, error) {
	buf, err := br.ReadN(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// U8 reads a big-endian unsigned 64-bit integer.
func (br *Reader) U8() (uint64, error) {
	buf, err := br.ReadN(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

// I1 reads a signed 8-bit integer.
func (br *Reader) I1() (int8, error) {
	v, err := br.U1()
	return int8(v), err
}

// I2 reads a signed 16-bit integer.
func (br *Reader) I2() (int16, error) {
	v, err := br.U2()
	return int16(v), err
}

// I4 reads a signed 32-bit integer.
func (br *Reader) I4() (int32, error) {
	v, err := br.U4()
	return int32(v), err
}

// I8 reads a signed 64-bit integer.
func (br *Reader) I8() (int64, error) {
	v, err := br.U8()
	return int64(v), err
}

// U2Vector reads a 16-bit count followed by that many u2 entries.
func (br *Reader) U2Vector() ([]uint16, error) {
	count, err := br.U2()
	if err != nil {
		return nil, fmt.Errorf("binreader: reading vector count: %w", err)
	}
	out := make([]uint16, count)
	for i := range out {
		out[i], err = br.U2()
		if err != nil {
			return nil, fmt.Errorf("binreader: reading vector entry %d: %w", i, err)
		}
	}
	return out, nil
}

// Writer accumulates big-endian primitives for class-file round-tripping.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty big-endian byte accumulator.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated bytes.
func (w *Writer) Bytes() []byte { return w.buf }

// WriteN appends raw bytes.
func (w *Writer) WriteN(b []byte) { w.buf = append(w.buf, b...) }

// U1 appends an unsigned 8-bit integer.
func (w *Writer) U1(v uint8) { w.buf = append(w.buf, v) }

// U2 appends a big-endian unsigned 16-bit integer.
func (w *Writer) U2(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// U4 appends a big-endian unsigned 32-bit integer.
func (w *Writer) U4(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// U8 appends a big-endian unsigned 64-bit integer.
func (w *Writer) U8(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}
