// Package render produces self-contained item metadata: a base64 JSON data
// URI whose image is a base64 SVG sigil. Output depends only on the inputs.
package render

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// URI prefixes.
const (
	JSONPrefix = "data:application/json;base64,"
	SVGPrefix  = "data:image/svg+xml;base64,"
)

// ArcanaTrait is the trait type carrying the item's trait seed.
const ArcanaTrait = "Arcana"

const (
	size   = 512
	center = size / 2
)

// Metadata is the JSON document behind a data URI.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Attribute is one trait entry.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     uint32 `json:"value"`
}

// Sigil holds the drawing parameters derived from an item.
type Sigil struct {
	Hue      uint32
	Accent   uint32
	Rays     uint32
	Rings    uint32
	Rotation uint32
	Widths   []uint32
}

// SigilFor derives drawing parameters from keccak256(itemID || traitSeed).
func SigilFor(itemID uint64, traitSeed uint32) Sigil {
	var buf [12]byte
	binary.BigEndian.PutUint64(buf[:8], itemID)
	binary.BigEndian.PutUint32(buf[8:], traitSeed)

	h := sha3.NewLegacyKeccak256()
	h.Write(buf[:])
	d := h.Sum(nil)

	s := Sigil{
		Hue:      uint32(binary.BigEndian.Uint16(d[0:2])) % 360,
		Rays:     3 + uint32(d[4])%9,
		Rings:    1 + uint32(d[5])%4,
		Rotation: uint32(binary.BigEndian.Uint16(d[6:8])) % 360,
	}
	s.Accent = (s.Hue + 90 + uint32(binary.BigEndian.Uint16(d[2:4]))%180) % 360
	s.Widths = make([]uint32, s.Rays)
	for i := range s.Widths {
		s.Widths[i] = 4 + uint32(d[8+i])%20
	}
	return s
}

// SVG draws the sigil.
func (s Sigil) SVG() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`, size, size)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="hsl(%d,40%%,12%%)"/>`, size, size, s.Hue)
	for i := uint32(0); i < s.Rings; i++ {
		r := 60 + i*45
		fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="%d" fill="none" stroke="hsl(%d,70%%,60%%)" stroke-width="%d"/>`,
			center, center, r, s.Accent, 2+i)
	}
	fmt.Fprintf(&b, `<g transform="rotate(%d %d %d)">`, s.Rotation, center, center)
	for i, w := range s.Widths {
		deg := uint32(i) * 360 / s.Rays
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" rx="%d" fill="hsl(%d,80%%,70%%)" transform="rotate(%d %d %d)"/>`,
			center-w/2, 56, w, center-56, w/2, s.Hue, deg, center, center)
	}
	b.WriteString(`</g>`)
	fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="24" fill="hsl(%d,90%%,80%%)"/>`, center, center, s.Accent)
	b.WriteString(`</svg>`)
	return b.String()
}

// Build returns the metadata for an item.
func Build(itemID uint64, traitSeed uint32) Metadata {
	s := SigilFor(itemID, traitSeed)
	return Metadata{
		Name:        fmt.Sprintf("Sigil Arcana #%d", itemID),
		Description: "An arcana sigil drawn from its item number and trait seed.",
		Image:       SVGPrefix + base64.StdEncoding.EncodeToString([]byte(s.SVG())),
		Attributes: []Attribute{
			{TraitType: ArcanaTrait, Value: traitSeed},
			{TraitType: "Rays", Value: s.Rays},
			{TraitType: "Rings", Value: s.Rings},
		},
	}
}

// Render returns the metadata data URI for an item.
func Render(itemID uint64, traitSeed uint32) []byte {
	return encode(Build(itemID, traitSeed))
}

// Placeholder returns the metadata shown for every item before reveal.
func Placeholder() []byte {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d"><rect width="%d" height="%d" fill="#111"/><text x="%d" y="%d" fill="#888" font-size="48" text-anchor="middle">?</text></svg>`,
		size, size, size, size, center, center)
	return encode(Metadata{
		Name:        "Sigil Arcana",
		Description: "Unrevealed.",
		Image:       SVGPrefix + base64.StdEncoding.EncodeToString([]byte(svg)),
		Attributes:  []Attribute{},
	})
}

// Decode parses a data URI produced by Render or Placeholder.
func Decode(uri []byte) (Metadata, error) {
	var m Metadata
	s := string(uri)
	if !strings.HasPrefix(s, JSONPrefix) {
		return m, fmt.Errorf("render: missing %q prefix", JSONPrefix)
	}
	raw, err := base64.StdEncoding.DecodeString(s[len(JSONPrefix):])
	if err != nil {
		return m, fmt.Errorf("render: decode base64: %w", err)
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("render: decode json: %w", err)
	}
	return m, nil
}

// DecodeImage returns the SVG text of m.
func (m Metadata) DecodeImage() (string, error) {
	if !strings.HasPrefix(m.Image, SVGPrefix) {
		return "", fmt.Errorf("render: missing %q prefix", SVGPrefix)
	}
	raw, err := base64.StdEncoding.DecodeString(m.Image[len(SVGPrefix):])
	if err != nil {
		return "", fmt.Errorf("render: decode image: %w", err)
	}
	return string(raw), nil
}

func encode(m Metadata) []byte {
	raw, err := json.Marshal(m)
	if err != nil {
		// Metadata holds only strings and integers.
		panic(err)
	}
	out := make([]byte, len(JSONPrefix)+base64.StdEncoding.EncodedLen(len(raw)))
	copy(out, JSONPrefix)
	base64.StdEncoding.Encode(out[len(JSONPrefix):], raw)
	return out
}
