package ledger

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Compression selects how stored snapshots are compressed. The scheme is
// written as the first byte of every encoded snapshot, so a store can read
// snapshots written under any scheme.
type Compression byte

const (
	CompressNone Compression = iota
	CompressGzip
	CompressZstd
)

func (c Compression) String() string {
	switch c {
	case CompressNone:
		return "none"
	case CompressGzip:
		return "gzip"
	case CompressZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", byte(c))
	}
}

// compress prefixes data with the scheme byte and compresses it.
func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressNone:
		return append([]byte{byte(c)}, data...), nil
	case CompressGzip:
		var buf bytes.Buffer
		buf.WriteByte(byte(c))
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompressZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		out := enc.EncodeAll(data, []byte{byte(c)})
		return out, enc.Close()
	default:
		return nil, fmt.Errorf("%w: unsupported compression %s", ErrValidation, c)
	}
}

// decompress reads the scheme byte and undoes compress.
func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty record", ErrCorruptSnapshot)
	}
	c, body := Compression(data[0]), data[1:]
	switch c {
	case CompressNone:
		return body, nil
	case CompressGzip:
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", ErrCorruptSnapshot, err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", ErrCorruptSnapshot, err)
		}
		return out, nil
	case CompressZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorruptSnapshot, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown compression %s", ErrCorruptSnapshot, c)
	}
}
