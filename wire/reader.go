/*
NAME
  reader.go

DESCRIPTION
  reader.go provides a forward-only, big-endian fixed-width integer reader
  over an io.Reader data source: each read pulls exactly the bytes the
  value needs, with no read-ahead, so the source never needs to be
  seekable.

LICENSE
  See repository LICENSE.
*/

// Package wire provides big-endian fixed-width integer and byte-slice
// reading and writing over plain io.Reader/io.Writer streams. It makes no
// assumption about buffering or seekability in the underlying stream.
package wire

import "io"

// Reader reads big-endian fixed-width integers and byte slices from an
// underlying io.Reader. Reads are always forward-only; Reader never needs
// to seek or rewind its source, so it is suitable for framing segments off
// an unseekable stream such as stdin.
type Reader struct {
	r   io.Reader
	buf [4]byte
}

// NewReader returns a Reader sourcing bytes from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// fill reads exactly n bytes into the Reader's scratch buffer. An io.EOF
// before any byte has been read is returned verbatim (so a caller can use
// it as a clean end-of-stream signal); an io.EOF after some bytes have
// already been consumed is promoted to io.ErrUnexpectedEOF, since the
// stream ended mid-value. Any other error is returned verbatim.
func (r *Reader) fill(n int) error {
	read := 0
	for read < n {
		m, err := r.r.Read(r.buf[read:n])
		read += m
		if err != nil {
			if err == io.EOF {
				if read == 0 {
					return io.EOF
				}
				return io.ErrUnexpectedEOF
			}
			return err
		}
	}
	return nil
}

// U8 reads one unsigned byte.
func (r *Reader) U8() (uint8, error) {
	if err := r.fill(1); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

// U16 reads a big-endian uint16.
func (r *Reader) U16() (uint16, error) {
	if err := r.fill(2); err != nil {
		return 0, err
	}
	return uint16(r.buf[0])<<8 | uint16(r.buf[1]), nil
}

// U24 reads a big-endian 24-bit unsigned integer, returned widened to uint32.
func (r *Reader) U24() (uint32, error) {
	if err := r.fill(3); err != nil {
		return 0, err
	}
	return uint32(r.buf[0])<<16 | uint32(r.buf[1])<<8 | uint32(r.buf[2]), nil
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() (uint32, error) {
	if err := r.fill(4); err != nil {
		return 0, err
	}
	return uint32(r.buf[0])<<24 | uint32(r.buf[1])<<16 | uint32(r.buf[2])<<8 | uint32(r.buf[3]), nil
}

// Bytes reads exactly n bytes and returns them as a newly allocated slice.
// If n is 0, Bytes returns an empty, non-nil slice without touching the
// source.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, n)
	read := 0
	for read < n {
		m, err := r.r.Read(buf[read:])
		read += m
		if err != nil {
			if err == io.EOF {
				if read == 0 {
					return nil, io.EOF
				}
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
	return buf, nil
}
