// Package dataset loads per-department institutional records from CSV and
// XLSX files.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/retrieval"
)

var (
	// ErrUnknownDepartment is returned for department tags with no configured files.
	ErrUnknownDepartment = errors.New("unknown department")
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// Config maps department tags to file names under DataDir.
type Config struct {
	DataDir     string
	Departments map[string][]string
}

// Loader reads department records from disk on every call.
type Loader struct {
	dataDir     string
	departments map[string][]string
	logger      *observability.Logger
}

// FileStatus describes one configured dataset file.
type FileStatus struct {
	Department string
	Path       string
	Exists     bool
	Records    int
	Err        error
}

// NewLoader creates a loader for the configured departments.
func NewLoader(cfg Config, logger *observability.Logger) *Loader {
	if logger == nil {
		logger = observability.Nop()
	}
	deps := make(map[string][]string, len(cfg.Departments))
	for dep, files := range cfg.Departments {
		deps[dep] = append([]string(nil), files...)
	}
	return &Loader{
		dataDir:     cfg.DataDir,
		departments: deps,
		logger:      logger,
	}
}

// Known reports whether department has configured files.
func (l *Loader) Known(department string) bool {
	_, ok := l.departments[department]
	return ok
}

// Departments returns the configured department tags, sorted.
func (l *Loader) Departments() []string {
	out := make([]string, 0, len(l.departments))
	for dep := range l.departments {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

// Files returns the resolved file paths for department.
func (l *Loader) Files(department string) ([]string, error) {
	files, ok := l.departments[department]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}
	paths := make([]string, len(files))
	for i, f := range files {
		if filepath.IsAbs(f) {
			paths[i] = f
		} else {
			paths[i] = filepath.Join(l.dataDir, f)
		}
	}
	return paths, nil
}

// Load returns every record of department's files in configuration order.
// Missing files are skipped.
func (l *Loader) Load(ctx context.Context, department string) ([]retrieval.Record, error) {
	paths, err := l.Files(department)
	if err != nil {
		return nil, err
	}

	log := l.logger.WithContext(ctx).WithDepartment(department)

	var records []retrieval.Record
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", path).Msg("Dataset file missing, skipping")
			continue
		}

		recs, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
		}
		records = append(records, recs...)
	}

	log.Debug().Int("records", len(records)).Msg("Department records loaded")
	return records, nil
}

// Inspect reports the state of every file configured for department.
func (l *Loader) Inspect(department string) ([]FileStatus, error) {
	paths, err := l.Files(department)
	if err != nil {
		return nil, err
	}

	statuses := make([]FileStatus, 0, len(paths))
	for _, path := range paths {
		st := FileStatus{Department: department, Path: path}
		if _, err := os.Stat(path); err == nil {
			st.Exists = true
			recs, err := LoadFile(path)
			st.Records = len(recs)
			st.Err = err
		} else if !errors.Is(err, os.ErrNotExist) {
			st.Err = err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// LoadFile reads records from a single CSV or XLSX file, using the first row
// as the header.
func LoadFile(path string) ([]retrieval.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx", ".xlsm":
		return loadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func loadCSV(path string) ([]retrieval.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return readCSV(f)
}

func readCSV(r io.Reader) ([]retrieval.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsToRecords(rows), nil
}

func loadXLSX(path string) ([]retrieval.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsToRecords(rows), nil
}

func rowsToRecords(rows [][]string) []retrieval.Record {
	if len(rows) == 0 {
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		header[i] = h
	}

	records := make([]retrieval.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		fields := make([]retrieval.Field, len(header))
		for i, name := range header {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			fields[i] = retrieval.Field{Name: name, Value: ParseCell(cell)}
		}
		records = append(records, retrieval.NewRecord(fields...))
	}
	return records
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ParseCell converts a raw cell to a record value: blank and NaN cells are
// empty, numeric cells are numbers, everything else is a string.
func ParseCell(raw string) retrieval.Value {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return retrieval.EmptyValue()
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return retrieval.NumberValue(n)
	}
	return retrieval.StringValue(s)
}
