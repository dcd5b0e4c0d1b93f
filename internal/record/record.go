// Package record writes and replays compressed streams of per-tick pixel
// deltas. A file is a zstd stream holding one JSON header line followed by
// gob-encoded frames.
package record

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"fluid-ca/internal/core"
)

// Version is the current file format version.
const Version = 1

// Header describes the recorded simulation.
type Header struct {
	Version int    `json:"version"`
	Sim     string `json:"sim"`
	Width   int    `json:"w"`
	Height  int    `json:"h"`
	Seed    int64  `json:"seed"`
}

// Frame is the delta produced by one tick.
type Frame struct {
	Tick   uint64
	Stats  core.TickStats
	Pixels []core.Pixel
}

// Writer appends frames to a recording.
type Writer struct {
	f   *os.File
	enc *zstd.Encoder
	bw  *bufio.Writer
	gob *gob.Encoder
}

// Create opens path for writing, creating parent directories.
func Create(path string, h Header) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, h)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.f = f
	return w, nil
}

// NewWriter starts a recording on w and writes the header.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	if h.Version == 0 {
		h.Version = Version
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriterSize(enc, 128*1024)
	hb, err := json.Marshal(h)
	if err != nil {
		_ = enc.Close()
		return nil, err
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		_ = enc.Close()
		return nil, err
	}
	return &Writer{enc: enc, bw: bw, gob: gob.NewEncoder(bw)}, nil
}

// WriteFrame appends one frame.
func (w *Writer) WriteFrame(f Frame) error {
	if err := w.gob.Encode(&f); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

// Close flushes buffered frames and finishes the zstd stream.
func (w *Writer) Close() error {
	err := w.bw.Flush()
	if cerr := w.enc.Close(); err == nil {
		err = cerr
	}
	if w.f != nil {
		if cerr := w.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Reader iterates over a recording.
type Reader struct {
	Header Header

	f   *os.File
	dec *zstd.Decoder
	gob *gob.Decoder
}

// Open opens a recording file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.f = f
	return r, nil
}

// NewReader reads the header from r.
func NewReader(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReaderSize(dec, 128*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		dec.Close()
		return nil, fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		dec.Close()
		return nil, fmt.Errorf("parse header: %w", err)
	}
	if h.Version != Version {
		dec.Close()
		return nil, fmt.Errorf("unsupported recording version %d", h.Version)
	}
	return &Reader{Header: h, dec: dec, gob: gob.NewDecoder(br)}, nil
}

// Next returns the next frame, or io.EOF after the last one.
func (r *Reader) Next() (Frame, error) {
	var f Frame
	if err := r.gob.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return f, io.EOF
		}
		return f, fmt.Errorf("gob decode: %w", err)
	}
	return f, nil
}

// Close releases the decoder and the file, if any.
func (r *Reader) Close() error {
	r.dec.Close()
	if r.f != nil {
		return r.f.Close()
	}
	return nil
}
