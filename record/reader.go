package record

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/lixenwraith/ledcube/voxel"
)

// Reader reads frames sequentially
type Reader struct {
	header Header
	br     *bufio.Reader
	file   *os.File
	dec    *zstd.Decoder

	comp []byte
	raw  []byte
}

// Open reads the header of the recording at path
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// NewReader reads and validates the header from in
func NewReader(in io.Reader) (*Reader, error) {
	br := bufio.NewReader(in)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	return &Reader{header: h, br: br, dec: dec}, nil
}

// Header returns the recording header
func (r *Reader) Header() Header { return r.header }

// ReadFrame decodes the next frame into g
// It returns io.EOF after the last frame and io.ErrUnexpectedEOF for a truncated one
func (r *Reader) ReadFrame(g *voxel.Grid) error {
	if g.Dims() != r.header.Dims {
		return fmt.Errorf("%w: %s from %s", ErrDimension, g.Dims(), r.header.Dims)
	}

	var prefix [12]byte
	if _, err := io.ReadFull(r.br, prefix[:]); err != nil {
		// io.EOF only when no prefix byte was read
		return err
	}
	n := binary.LittleEndian.Uint32(prefix[0:])
	sum := binary.LittleEndian.Uint64(prefix[4:])
	if n > maxFrameLen {
		return fmt.Errorf("record: frame length %d exceeds limit", n)
	}

	if cap(r.comp) < int(n) {
		r.comp = make([]byte, n)
	}
	r.comp = r.comp[:n]
	if _, err := io.ReadFull(r.br, r.comp); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	raw, err := r.dec.DecodeAll(r.comp, r.raw[:0])
	if err != nil {
		return fmt.Errorf("record: decompress: %w", err)
	}
	r.raw = raw
	if len(raw) != g.Dims().Count()*bytesPerCell {
		return fmt.Errorf("%w: payload %d bytes", ErrDimension, len(raw))
	}
	if xxhash.Sum64(raw) != sum {
		return ErrChecksum
	}

	decodeCells(g, raw)
	return nil
}

// Close releases the decoder and the file if the reader opened it
func (r *Reader) Close() error {
	r.dec.Close()
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
