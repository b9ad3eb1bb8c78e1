package reader

import (
	"encoding/binary"
	"io"

	"github.com/google/uuid"
	"github.com/jsphweid/sfdex/model"
	"github.com/pkg/errors"
)

// Reader reads fixed width values from a seekable stream. The byte order can
// be switched at any point, which the serialized format does right after its
// header.
type Reader struct {
	rs    io.ReadSeeker
	order binary.ByteOrder
	buf   [16]byte
}

func New(rs io.ReadSeeker) *Reader {
	return &Reader{rs: rs, order: binary.LittleEndian}
}

func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}

func (r *Reader) SetByteOrder(order binary.ByteOrder) {
	r.order = order
}

func (r *Reader) BigEndian() {
	r.order = binary.BigEndian
}

func (r *Reader) LittleEndian() {
	r.order = binary.LittleEndian
}

func (r *Reader) Tell() (int64, error) {
	return r.rs.Seek(0, io.SeekCurrent)
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	return r.rs.Seek(offset, whence)
}

// readExact fills the first n bytes of the scratch buffer.
func (r *Reader) readExact(n int) ([]byte, error) {
	b := r.buf[:n]
	if _, err := io.ReadFull(r.rs, b); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(model.ErrShortRead, "want %d bytes", n)
		}
		return nil, errors.Wrapf(err, "read %d bytes", n)
	}
	return b, nil
}

func (r *Reader) Uint8() (uint8, error) {
	b, err := r.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) Int8() (int8, error) {
	v, err := r.Uint8()
	return int8(v), err
}

func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint8()
	return v != 0, err
}

func (r *Reader) Uint16() (uint16, error) {
	b, err := r.readExact(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

func (r *Reader) Uint32() (uint32, error) {
	b, err := r.readExact(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *Reader) Int32() (int32, error) {
	v, err := r.Uint32()
	return int32(v), err
}

func (r *Reader) Uint64() (uint64, error) {
	b, err := r.readExact(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

func (r *Reader) Int64() (int64, error) {
	v, err := r.Uint64()
	return int64(v), err
}

// UUID reads 16 raw bytes. Byte order does not apply.
func (r *Reader) UUID() (uuid.UUID, error) {
	b, err := r.readExact(16)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.FromBytes(b)
}

// CString reads up to and including a zero byte. Running out of input before
// the terminator is a short read.
func (r *Reader) CString() (string, error) {
	var res []byte
	for {
		b, err := r.Uint8()
		if err != nil {
			return "", errors.Wrapf(err, "unterminated string after %d bytes", len(res))
		}
		if b == 0 {
			return string(res), nil
		}
		res = append(res, b)
	}
}

// Skip reads and discards n bytes.
func (r *Reader) Skip(n int64) error {
	copied, err := io.CopyN(io.Discard, r.rs, n)
	if err == io.EOF {
		return errors.Wrapf(model.ErrShortRead, "skip %d bytes, got %d", n, copied)
	}
	return err
}

// Align seeks forward to the next multiple of boundary, which must be a
// power of two. The skipped bytes are not read.
func (r *Reader) Align(boundary int64) error {
	pos, err := r.Tell()
	if err != nil {
		return err
	}
	next := (pos + boundary - 1) &^ (boundary - 1)
	if next == pos {
		return nil
	}
	_, err = r.Seek(next, io.SeekStart)
	return err
}
