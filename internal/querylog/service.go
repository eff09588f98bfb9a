// Package querylog keeps the append-only log of generated INSERT statements
// that wait to be executed against the invoices database.
//
// The log is a single JSON array. Every Append reads the whole file, adds
// one record and replaces the file, so between writes it is always a
// complete document. A file that no longer parses is moved aside (see
// filex.QuarantineName) and a fresh log is started; a write that fails is
// reported to the caller wrapped in common.ErrIOFailure.
//
// Nothing here is safe for use by two processes at once.
package querylog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/facturas/internal/common"
	"github.com/dmitrijs2005/facturas/internal/filex"
	"github.com/dmitrijs2005/facturas/internal/invoice"
	"github.com/dmitrijs2005/facturas/internal/logging"
)

// DefaultPath is where the log lives unless configured otherwise.
const DefaultPath = "Data/queries.json"

// InsertSQL is the statement recorded for every imported invoice.
const InsertSQL = "INSERT INTO invoices (codigo, proveedor, nif, fecha, total, xml) VALUES (@codigo, @proveedor, @nif, @fecha, @total, @xml);"

// Parameter names bound by InsertSQL.
const (
	ParamCode     = "codigo"
	ParamSupplier = "proveedor"
	ParamTaxID    = "nif"
	ParamDate     = "fecha"
	ParamTotal    = "total"
	ParamXML      = "xml"
)

type Service struct {
	path   string
	logger logging.Logger
	now    invoice.Clock
}

// New resolves configuredPath against the working directory and the
// executable's directory, creates the parent directory and returns a
// service bound to that file for its whole lifetime.
func New(ctx context.Context, configuredPath string, logger logging.Logger) (*Service, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}
	exeDir, err := filex.ExecutableDir()
	if err != nil {
		return nil, err
	}
	return NewWithDirs(ctx, configuredPath, cwd, exeDir, logger)
}

// NewWithDirs is New with explicit lookup directories.
func NewWithDirs(ctx context.Context, configuredPath, cwd, exeDir string, logger logging.Logger) (*Service, error) {
	path, err := filex.ResolvePath(configuredPath, cwd, exeDir)
	if err != nil {
		return nil, fmt.Errorf("resolve queries file: %w", err)
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	logger = logger.With("queries_file", path)
	logger.Debug(ctx, "query log resolved")

	return &Service{path: path, logger: logger, now: time.Now}, nil
}

// Path is the resolved log file.
func (s *Service) Path() string {
	return s.path
}

// LoadAll returns every record in the log, oldest first. A missing file is
// an empty log. A file that is not a valid log is quarantined and an empty
// log is returned; read problems are logged, never returned.
func (s *Service) LoadAll(ctx context.Context) []QueryRecord {
	records, err := s.load(ctx)
	if err != nil {
		s.logger.Error(ctx, "query log unreadable", "error", err)
		return []QueryRecord{}
	}
	return records
}

// load reports read failures and a failed quarantine; a corrupt file that
// was moved aside reads as empty. Append never replaces a log it could not
// read or move.
func (s *Service) load(ctx context.Context) ([]QueryRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []QueryRecord{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var records []QueryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		if qerr := s.quarantine(ctx, err); qerr != nil {
			return nil, qerr
		}
		return []QueryRecord{}, nil
	}
	if records == nil {
		records = []QueryRecord{}
	}
	return records, nil
}

func (s *Service) quarantine(ctx context.Context, cause error) error {
	s.logger.Warn(ctx, "query log is corrupt", "error", cause)

	target := filex.QuarantineName(s.path, s.now())
	if err := os.Rename(s.path, target); err != nil {
		s.logger.Error(ctx, "failed to move corrupt query log", "target", target, "error", err)
		return fmt.Errorf("quarantine %s: %w", s.path, err)
	}

	s.logger.Warn(ctx, "moved corrupt query log aside", "target", target)
	return nil
}

// Append adds rec to the end of the log and rewrites the file.
func (s *Service) Append(ctx context.Context, rec QueryRecord) error {
	records, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrIOFailure, err)
	}
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode query log: %w", common.ErrIOFailure, err)
	}

	s.logger.Debug(ctx, "writing query log", "records", len(records))

	if err := writeFileReplace(s.path, data); err != nil {
		s.logger.Error(ctx, "error writing query log", "error", err)
		return fmt.Errorf("%w: writing queries file %q: %w", common.ErrIOFailure, s.path, err)
	}

	s.logger.Info(ctx, "query log written", "records", len(records))
	return nil
}

// writeFileReplace writes data next to path and renames it over path.
func writeFileReplace(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// GenerateInsertFromXML extracts the invoice fields from xmlText, records
// InsertSQL bound to them and returns the appended record.
//
// The header date falls back to the record's UTC calendar date when it is
// missing or unreadable. The xml parameter is xmlText verbatim.
func (s *Service) GenerateInsertFromXML(ctx context.Context, xmlText string) (QueryRecord, error) {
	inv, err := invoice.Parse([]byte(xmlText))
	if err != nil {
		return QueryRecord{}, err
	}

	ts := s.now().UTC()

	date := inv.Header.Date
	if date.IsZero() {
		date = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}

	rec := QueryRecord{
		SQL: InsertSQL,
		Parameters: Parameters{
			ParamCode:     String(inv.Code),
			ParamSupplier: String(inv.Header.Supplier),
			ParamTaxID:    String(inv.Header.TaxID),
			ParamDate:     Date(date),
			ParamTotal:    Decimal(inv.Footer.Total),
			ParamXML:      String(xmlText),
		},
		Timestamp: ts,
	}

	if err := s.Append(ctx, rec); err != nil {
		return QueryRecord{}, err
	}

	s.logger.Info(ctx, "insert generated", "codigo", inv.Code)
	return rec, nil
}
