// Package record stores and replays voxel frame sequences.
//
// A recording is a fixed header followed by independently compressed frames:
//
//	magic    [8]byte  "LEDREC\x00\x01"
//	W H D    uint16 ×3, little endian
//	FPS      uint16
//	session  [16]byte UUID
//	frames:  len uint32 | xxhash64(raw) uint64 | zstd(raw)[len]
//
// The raw payload is 3 bytes per cell (ch0, ch1, ch2) in x, then y, then z order.
package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/lixenwraith/ledcube/voxel"
)

// Magic identifies version 1 recordings
var Magic = [8]byte{'L', 'E', 'D', 'R', 'E', 'C', 0x00, 0x01}

const (
	bytesPerCell = 3
	// maxFrameLen bounds a compressed frame; zstd never expands 255³ cells past this
	maxFrameLen = 64 << 20
)

var (
	ErrBadMagic  = errors.New("not a ledcube recording")
	ErrChecksum  = errors.New("frame checksum mismatch")
	ErrDimension = errors.New("frame dimensions do not match recording")
	ErrEmpty     = errors.New("recording has no frames")
)

// Header describes a recording
type Header struct {
	Dims    voxel.Dims
	FPS     int
	Session uuid.UUID
}

type rawHeader struct {
	Magic   [8]byte
	W, H, D uint16
	FPS     uint16
	Session [16]byte
}

func writeHeader(w io.Writer, h Header) error {
	raw := rawHeader{
		Magic:   Magic,
		W:       uint16(h.Dims.W),
		H:       uint16(h.Dims.H),
		D:       uint16(h.Dims.D),
		FPS:     uint16(h.FPS),
		Session: h.Session,
	}
	return binary.Write(w, binary.LittleEndian, &raw)
}

func readHeader(r io.Reader) (Header, error) {
	var raw rawHeader
	if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: short header", ErrBadMagic)
		}
		return Header{}, err
	}
	if raw.Magic != Magic {
		return Header{}, ErrBadMagic
	}

	h := Header{
		Dims:    voxel.Dims{W: int(raw.W), H: int(raw.H), D: int(raw.D)},
		FPS:     int(raw.FPS),
		Session: raw.Session,
	}
	if err := h.Dims.Validate(); err != nil {
		return Header{}, fmt.Errorf("recording header: %w", err)
	}
	if h.FPS <= 0 {
		return Header{}, fmt.Errorf("recording header: fps %d", h.FPS)
	}
	return h, nil
}

// encodeCells appends the raw payload of g to dst
func encodeCells(dst []byte, g *voxel.Grid) []byte {
	for _, p := range g.Cells() {
		c, _ := voxel.Decode(p)
		dst = append(dst, c.Ch[0], c.Ch[1], c.Ch[2])
	}
	return dst
}

// decodeCells writes raw into g; len(raw) must match g's cell count
func decodeCells(g *voxel.Grid, raw []byte) {
	cells := g.Cells()
	for i := range cells {
		b := raw[i*bytesPerCell:]
		cells[i] = voxel.Packed(b[0]) | voxel.Packed(b[1])<<8 | voxel.Packed(b[2])<<16
	}
}
