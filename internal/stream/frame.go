package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"ocean/internal/gpu"
	"ocean/internal/lod"
)

// Binary heightfield frame layout, little endian:
//
//	magic   [4]byte "OCHF"
//	frame   uint64
//	time    float64
//	size    uint32
//	heights size*size binary16, row-major
const (
	frameMagic  = "OCHF"
	headerBytes = 4 + 8 + 8 + 4
)

var ErrBadFrame = errors.New("malformed heightfield frame")

// Source is what the hub publishes each frame.
type Source interface {
	FrameID() uint64
	Time() float64
	Heightfield() *gpu.Surface
	VisibleQuads() []*lod.Block
	Origin() mgl64.Vec3
	Scale() float64
}

// Heightfield is a decoded binary frame.
type Heightfield struct {
	FrameID uint64
	Time    float64
	Size    int
	Heights []float32
}

// EncodeHeightfield packs the published heights (r+g) of src.
func EncodeHeightfield(src Source) []byte {
	s := src.Heightfield()
	n := s.Size()
	buf := make([]byte, headerBytes+2*n*n)
	copy(buf, frameMagic)
	binary.LittleEndian.PutUint64(buf[4:], src.FrameID())
	binary.LittleEndian.PutUint64(buf[12:], math.Float64bits(src.Time()))
	binary.LittleEndian.PutUint32(buf[20:], uint32(n))
	texels := s.Texels()
	out := buf[headerBytes:]
	for i := 0; i < n*n; i++ {
		h := texels[i*gpu.Channels] + texels[i*gpu.Channels+1]
		binary.LittleEndian.PutUint16(out[2*i:], halfBits(h))
	}
	return buf
}

// DecodeHeightfield is the inverse of EncodeHeightfield.
func DecodeHeightfield(b []byte) (*Heightfield, error) {
	if len(b) < headerBytes || string(b[:4]) != frameMagic {
		return nil, ErrBadFrame
	}
	n := int(binary.LittleEndian.Uint32(b[20:]))
	if len(b) != headerBytes+2*n*n {
		return nil, fmt.Errorf("%w: %d bytes for size %d", ErrBadFrame, len(b), n)
	}
	hf := &Heightfield{
		FrameID: binary.LittleEndian.Uint64(b[4:]),
		Time:    math.Float64frombits(binary.LittleEndian.Uint64(b[12:])),
		Size:    n,
		Heights: make([]float32, n*n),
	}
	body := b[headerBytes:]
	for i := range hf.Heights {
		hf.Heights[i] = halfFloat(binary.LittleEndian.Uint16(body[2*i:]))
	}
	return hf, nil
}

// Quad is one visible LOD block as sent to clients.
type Quad struct {
	Level int    `json:"level"`
	Top   int    `json:"top"`
	Left  int    `json:"left"`
	Size  int    `json:"size"`
	Edge  string `json:"edge"`
}

// QuadList is the text message sent alongside each heightfield.
type QuadList struct {
	FrameID uint64     `json:"frame_id"`
	Origin  [3]float64 `json:"origin"`
	Scale   float64    `json:"scale"`
	Quads   []Quad     `json:"quads"`
}

func quadList(src Source) QuadList {
	blocks := src.VisibleQuads()
	ql := QuadList{
		FrameID: src.FrameID(),
		Origin:  src.Origin(),
		Scale:   src.Scale(),
		Quads:   make([]Quad, len(blocks)),
	}
	for i, b := range blocks {
		ql.Quads[i] = Quad{Level: b.Level, Top: b.Top, Left: b.Left, Size: b.LevelSize, Edge: b.Side().String()}
	}
	return ql
}
