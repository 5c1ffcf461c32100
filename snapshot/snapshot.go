package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/animalcache/codec"
	"github.com/hupe1980/animalcache/internal/conv"
	"github.com/hupe1980/animalcache/internal/hash"
	"github.com/hupe1980/animalcache/model"
)

const (
	// Magic identifies snapshot files (ASCII "ANS1").
	Magic uint32 = 0x31534e41
	// Version is the current format version.
	Version uint16 = 1

	headerSize = 24
)

var (
	ErrInvalidMagic       = errors.New("snapshot: invalid magic number")
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	ErrUnknownCodec       = errors.New("snapshot: unknown codec")
	ErrUnknownCompression = errors.New("snapshot: unknown compression")
	ErrChecksumMismatch   = errors.New("snapshot: checksum mismatch")
	ErrCorrupt            = errors.New("snapshot: corrupt body")
	ErrTooLarge           = errors.New("snapshot: body exceeds 4 GiB")

	errIncompressible = errors.New("snapshot: incompressible")
)

// Header describes an encoded snapshot.
type Header struct {
	Version          uint16
	Compression      Compression
	Codec            string
	Count            uint32
	UncompressedSize uint32
	StoredSize       uint32
	Checksum         uint32
}

type options struct {
	codec       codec.Codec
	compression Compression
}

// Option configures Encode and Write.
type Option func(*options)

// WithCodec sets the body codec. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the body compression. Defaults to zstd.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// Encode serializes records into a snapshot.
func Encode(records []model.Record, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Write(&buf, records, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes records to w and returns the number of bytes written.
func Write(w io.Writer, records []model.Record, opts ...Option) (int64, error) {
	o := options{codec: codec.Default, compression: CompressionZSTD}
	for _, fn := range opts {
		fn(&o)
	}

	name := o.codec.Name()
	nameLen, err := conv.IntToUint8(len(name))
	if err != nil {
		return 0, fmt.Errorf("%w: name too long", ErrUnknownCodec)
	}
	if records == nil {
		records = []model.Record{}
	}

	raw, err := o.codec.Marshal(records)
	if err != nil {
		return 0, fmt.Errorf("snapshot: encode records: %w", err)
	}
	stored, err := compress(raw, o.compression)
	switch {
	case errors.Is(err, errIncompressible):
		o.compression = CompressionNone
		stored = raw
	case err != nil:
		return 0, err
	}

	sizes, err := conv.LensToUint32(len(records), len(raw), len(stored))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTooLarge, err)
	}

	hdr := make([]byte, headerSize+len(name))
	binary.LittleEndian.PutUint32(hdr[0:], Magic)
	binary.LittleEndian.PutUint16(hdr[4:], Version)
	hdr[6] = byte(o.compression)
	hdr[7] = nameLen
	binary.LittleEndian.PutUint32(hdr[8:], sizes[0])
	binary.LittleEndian.PutUint32(hdr[12:], sizes[1])
	binary.LittleEndian.PutUint32(hdr[16:], sizes[2])
	copy(hdr[headerSize:], name)
	binary.LittleEndian.PutUint32(hdr[20:], hash.CRC32C(hdr[4:20], hdr[headerSize:], stored))

	n, err := w.Write(hdr)
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(stored)
	return int64(n + m), err
}

// ReadHeader parses the fixed header and codec name at the start of data. It
// returns the header and the offset of the body.
func ReadHeader(data []byte) (Header, int, error) {
	if len(data) < headerSize {
		return Header{}, 0, io.ErrUnexpectedEOF
	}
	if binary.LittleEndian.Uint32(data[0:]) != Magic {
		return Header{}, 0, ErrInvalidMagic
	}

	h := Header{
		Version:          binary.LittleEndian.Uint16(data[4:]),
		Compression:      Compression(data[6]),
		Count:            binary.LittleEndian.Uint32(data[8:]),
		UncompressedSize: binary.LittleEndian.Uint32(data[12:]),
		StoredSize:       binary.LittleEndian.Uint32(data[16:]),
		Checksum:         binary.LittleEndian.Uint32(data[20:]),
	}
	if h.Version != Version {
		return Header{}, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	end := headerSize + int(data[7])
	if len(data) < end {
		return Header{}, 0, io.ErrUnexpectedEOF
	}
	h.Codec = string(data[headerSize:end])
	return h, end, nil
}

// Decode parses a snapshot produced by Encode or Write.
func Decode(data []byte) ([]model.Record, Header, error) {
	h, off, err := ReadHeader(data)
	if err != nil {
		return nil, Header{}, err
	}

	c, ok := codec.ByName(h.Codec)
	if !ok {
		return nil, h, fmt.Errorf("%w: %q", ErrUnknownCodec, h.Codec)
	}

	if uint64(len(data)-off) < uint64(h.StoredSize) {
		return nil, h, io.ErrUnexpectedEOF
	}
	stored := data[off : off+int(h.StoredSize)]
	if !hash.Verify(h.Checksum, data[4:20], data[headerSize:off], stored) {
		return nil, h, ErrChecksumMismatch
	}

	raw, err := decompress(stored, h.Compression, h.UncompressedSize)
	if err != nil {
		return nil, h, err
	}

	records := []model.Record{}
	if len(raw) > 0 {
		if err := c.Unmarshal(raw, &records); err != nil {
			return nil, h, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	if uint32(len(records)) != h.Count {
		return nil, h, fmt.Errorf("%w: header says %d records, body has %d", ErrCorrupt, h.Count, len(records))
	}
	return records, h, nil
}

// Read reads a whole snapshot from r.
func Read(r io.Reader) ([]model.Record, Header, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Header{}, err
	}
	return Decode(data)
}
