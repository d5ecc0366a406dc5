package generation

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
)

// maxLineSize bounds a single NDJSON line.
const maxLineSize = 1024 * 1024

// Fragment is one line of a streamed generate response.
type Fragment struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// AggregateStats counts what a stream delivered.
type AggregateStats struct {
	Fragments int
	Skipped   int
}

// StreamParser reads newline-delimited fragments, skipping lines that are not
// valid JSON or exceed maxLineSize.
type StreamParser struct {
	reader  *bufio.Reader
	logger  *observability.Logger
	line    []byte
	skipped int
}

// NewStreamParser creates a parser over reader.
func NewStreamParser(reader io.Reader, logger *observability.Logger) *StreamParser {
	if logger == nil {
		logger = observability.Nop()
	}
	return &StreamParser{reader: bufio.NewReaderSize(reader, 64*1024), logger: logger}
}

// Next returns the next well-formed fragment. It returns io.EOF once the
// stream ends.
func (p *StreamParser) Next() (*Fragment, error) {
	for {
		line, size, err := p.readLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		switch trimmed := bytes.TrimSpace(line); {
		case size > maxLineSize:
			p.skipped++
			p.logger.Error().Int("line_bytes", size).Msg("Oversized stream line dropped")
		case len(trimmed) > 0:
			var frag Fragment
			if jsonErr := json.Unmarshal(trimmed, &frag); jsonErr != nil {
				p.skipped++
				p.logger.Error().Err(jsonErr).Int("line_bytes", len(trimmed)).Msg("Partial parse error")
				break
			}
			return &frag, nil
		}

		if err != nil {
			return nil, io.EOF
		}
	}
}

// readLine returns the next line and its full length. Bytes past maxLineSize
// are drained from the reader but not kept.
func (p *StreamParser) readLine() ([]byte, int, error) {
	p.line = p.line[:0]
	size := 0
	for {
		chunk, err := p.reader.ReadSlice('\n')
		size += len(chunk)
		if size <= maxLineSize {
			p.line = append(p.line, chunk...)
		}
		if !errors.Is(err, bufio.ErrBufferFull) {
			return p.line, size, err
		}
	}
}

// Skipped returns the number of malformed lines seen so far.
func (p *StreamParser) Skipped() int { return p.skipped }

// Aggregate concatenates the response pieces of every fragment in arrival
// order. A read error aborts aggregation; malformed lines never do.
func Aggregate(reader io.Reader, logger *observability.Logger) (string, AggregateStats, error) {
	parser := NewStreamParser(reader, logger)

	var b strings.Builder
	var stats AggregateStats
	for {
		frag, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stats.Skipped = parser.Skipped()
			return b.String(), stats, err
		}
		stats.Fragments++
		b.WriteString(frag.Response)
	}

	stats.Skipped = parser.Skipped()
	return b.String(), stats, nil
}
