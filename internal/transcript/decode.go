package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const readChunkSize = 4 << 10

// record is the part of an upstream stream line the assembler reads.
type record struct {
	Message *struct {
		Content string `json:"content"`
	} `json:"message"`
}

// DeltaReader turns a raw NDJSON byte stream into content deltas.
//
// Bytes pass through a stateful UTF-8 decoder so a multi-byte character split
// across reads is held until complete. Lines are split on '\n'; the fragment
// after the last newline waits for more input and is discarded at EOF.
type DeltaReader struct {
	src     io.Reader
	chunk   []byte
	pending []byte
	lines   [][]byte
	eof     bool
}

func NewDeltaReader(r io.Reader) *DeltaReader {
	return &DeltaReader{
		src:   transform.NewReader(r, unicode.UTF8BOM.NewDecoder()),
		chunk: make([]byte, readChunkSize),
	}
}

// Next returns the next non-empty delta. It returns io.EOF once the stream
// is exhausted, ctx.Err() when cancelled, or the underlying read error.
func (d *DeltaReader) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		for len(d.lines) > 0 {
			line := d.lines[0]
			d.lines = d.lines[1:]
			if delta, ok := parseLine(line); ok {
				return delta, nil
			}
		}
		if d.eof {
			d.pending = nil
			return "", io.EOF
		}

		n, err := d.src.Read(d.chunk)
		if n > 0 {
			d.split(d.chunk[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.eof = true
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return "", err
		}
	}
}

func (d *DeltaReader) split(data []byte) {
	d.pending = append(d.pending, data...)
	for {
		idx := bytes.IndexByte(d.pending, '\n')
		if idx < 0 {
			break
		}
		line := make([]byte, idx)
		copy(line, d.pending[:idx])
		d.lines = append(d.lines, line)
		d.pending = d.pending[idx+1:]
	}
	// Compact so a long stream does not pin every consumed byte.
	if len(d.pending) == 0 {
		d.pending = nil
	} else {
		d.pending = append([]byte(nil), d.pending...)
	}
}

// parseLine extracts message.content from one complete line. Blank lines,
// lines that are not a JSON object and records without content yield ok=false.
func parseLine(line []byte) (string, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return "", false
	}
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return "", false
	}
	if rec.Message == nil || rec.Message.Content == "" {
		return "", false
	}
	return rec.Message.Content, true
}
