// Package trace writes per-run decision traces as zstd-compressed JSONL,
// one file per (scenario, seed) run.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type Writer struct {
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewWriter opens baseDir/<scenario>_<seed>.jsonl.zst for writing.
func NewWriter(baseDir, scenario string, seed int64) (*Writer, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(baseDir, fmt.Sprintf("%s_%d.jsonl.zst", scenario, seed))
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Writer{f: f, enc: enc, w: bufio.NewWriter(enc)}, nil
}

func (t *Writer) Write(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := t.w.Write(b); err != nil {
		return err
	}
	return t.w.WriteByte('\n')
}

func (t *Writer) Close() error {
	if err := t.w.Flush(); err != nil {
		return err
	}
	if err := t.enc.Close(); err != nil {
		return err
	}
	return t.f.Close()
}

// ReadAll decodes every record of a trace file into raw JSON lines. Used
// by tests and ad-hoc inspection.
func ReadAll(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []json.RawMessage
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for sc.Scan() {
		line := append([]byte(nil), sc.Bytes()...)
		out = append(out, line)
	}
	return out, sc.Err()
}
