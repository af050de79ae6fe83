package record

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/lixenwraith/ledcube/voxel"
)

// Writer appends frames to a recording
type Writer struct {
	header Header
	bw     *bufio.Writer
	file   *os.File // set when the writer owns the file
	enc    *zstd.Encoder

	raw    []byte
	comp   []byte
	frames int
	closed bool
}

// Create starts a recording at path, truncating any existing file
func Create(path string, dims voxel.Dims, fps int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	w, err := NewWriter(f, dims, fps)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.file = f
	log.Printf("record: writing %s (%s @ %d fps, session %s)", path, dims, fps, w.header.Session)
	return w, nil
}

// NewWriter writes the header to out with a fresh session id
func NewWriter(out io.Writer, dims voxel.Dims, fps int) (*Writer, error) {
	if err := dims.Validate(); err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	if fps <= 0 || fps > 0xFFFF {
		return nil, fmt.Errorf("record: fps %d out of range", fps)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}

	w := &Writer{
		header: Header{Dims: dims, FPS: fps, Session: uuid.New()},
		bw:     bufio.NewWriter(out),
		enc:    enc,
		raw:    make([]byte, 0, dims.Count()*bytesPerCell),
	}
	if err := writeHeader(w.bw, w.header); err != nil {
		enc.Close()
		return nil, fmt.Errorf("record: header: %w", err)
	}
	return w, nil
}

// Header returns the recording header
func (w *Writer) Header() Header { return w.header }

// Frames returns the number of frames written
func (w *Writer) Frames() int { return w.frames }

// WriteFrame appends g; its dimensions must match the header
func (w *Writer) WriteFrame(g *voxel.Grid) error {
	if g.Dims() != w.header.Dims {
		return fmt.Errorf("%w: %s into %s", ErrDimension, g.Dims(), w.header.Dims)
	}

	w.raw = encodeCells(w.raw[:0], g)
	w.comp = w.enc.EncodeAll(w.raw, w.comp[:0])

	var prefix [12]byte
	binary.LittleEndian.PutUint32(prefix[0:], uint32(len(w.comp)))
	binary.LittleEndian.PutUint64(prefix[4:], xxhash.Sum64(w.raw))

	if _, err := w.bw.Write(prefix[:]); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	if _, err := w.bw.Write(w.comp); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	w.frames++
	return nil
}

// Close flushes buffered frames and closes the file if the writer opened it
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.enc.Close()

	err := w.bw.Flush()
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
		log.Printf("record: closed after %d frames", w.frames)
	}
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}
