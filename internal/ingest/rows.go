// Package ingest decodes grid rows from data files.
//
// A data file holds a list of objects. The format follows the extension:
// .json (array), .ndjson/.jsonl (one object per line), .yaml/.yml (sequence)
// and .msgpack/.mpk (array of maps).
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/rshade/flashgrid/internal/grid"
	"github.com/rshade/flashgrid/internal/logging"
)

// Format identifies a data file encoding.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatNDJSON  Format = "ndjson"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// maxLineSize bounds a single NDJSON record.
const maxLineSize = 4 * 1024 * 1024

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported data format")

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".ndjson", ".jsonl":
		return FormatNDJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseRows decodes data in the given format.
func ParseRows(ctx context.Context, format Format, data []byte) ([]grid.Row, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("format", string(format)).
		Int("data_size_bytes", len(data)).
		Msg("parsing rows")

	var (
		rows []grid.Row
		err  error
	)
	switch format {
	case FormatJSON:
		rows, err = parseJSON(data)
	case FormatNDJSON:
		rows, err = parseNDJSON(data)
	case FormatYAML:
		rows, err = parseYAML(data)
	case FormatMsgpack:
		rows, err = parseMsgpack(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s rows: %w", format, err)
	}

	log.Debug().
		Str("component", "ingest").
		Int("row_count", len(rows)).
		Msg("rows parsed")
	return rows, nil
}

// LoadRows reads and decodes one data file.
func LoadRows(ctx context.Context, path string) ([]grid.Row, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading data file: %w", err)
	}
	rows, err := ParseRows(ctx, format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// LoadFiles decodes every path concurrently and concatenates the rows in the
// order the paths were given. The first failure cancels the rest.
func LoadFiles(ctx context.Context, paths []string) ([]grid.Row, error) {
	results := make([][]grid.Row, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rows, err := LoadRows(gCtx, path)
			if err != nil {
				return err
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	rows := make([]grid.Row, 0, total)
	for _, r := range results {
		rows = append(rows, r...)
	}
	return rows, nil
}

func parseJSON(data []byte) ([]grid.Row, error) {
	var rows []grid.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func parseNDJSON(data []byte) ([]grid.Row, error) {
	var rows []grid.Row
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var row grid.Row
		if err := json.Unmarshal(text, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func parseYAML(data []byte) ([]grid.Row, error) {
	var rows []grid.Row
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func parseMsgpack(data []byte) ([]grid.Row, error) {
	var raw []map[string]any
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	rows := make([]grid.Row, len(raw))
	for i, m := range raw {
		rows[i] = grid.Row(m)
	}
	return rows, nil
}
