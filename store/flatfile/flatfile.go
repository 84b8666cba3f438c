/*
Package flatfile implements the payroll storage interfaces over the
legacy semicolon-delimited text files.

PURPOSE:
  Compatibility with the data the legacy system already holds: three
  delimited files with fixed column schemas, one per entity.

FILES (in the store's directory):
  ouvriers.csv   nom;fonction;groupe;tarif_hn;tarif_hs
  pointage.csv   Date;Semaine;Nom;Heures
  acomptes.csv   Date;Nom;Montant

FORMAT NOTES:
  - Semicolon separator, header row first.
  - Dates are YYYY-MM-DD.
  - A UTF-8 byte-order mark at the start of a file is tolerated on read
    (the legacy writer emitted one); this store writes without it.
  - Missing or empty files are initialized with their header on open.

MALFORMED ROWS:
  Rows with unparseable dates or non-numeric values are dropped on load,
  never fatal - a payroll report stays producible over dirty files. The
  drop count is exposed via DroppedRows for caller audit.

SEE ALSO:
  - payroll/store.go: Interface definitions
  - store/sqlite: SQLite implementation for fresh deployments
*/
package flatfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

const (
	workersFile    = "ouvriers.csv"
	attendanceFile = "pointage.csv"
	advancesFile   = "acomptes.csv"
)

var headers = map[string][]string{
	workersFile:    {"nom", "fonction", "groupe", "tarif_hn", "tarif_hs"},
	attendanceFile: {"Date", "Semaine", "Nom", "Heures"},
	advancesFile:   {"Date", "Nom", "Montant"},
}

// Store implements payroll.Store over a directory of delimited files.
type Store struct {
	dir     string
	mu      sync.Mutex
	dropped int
}

var _ payroll.Store = (*Store)(nil)

// New opens a flat-file store rooted at dir, creating the directory and
// initializing missing or empty files with their headers.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := &Store{dir: dir}
	for name := range headers {
		if err := s.initFile(name); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DroppedRows returns the cumulative count of malformed rows dropped on
// load since the store was opened.
func (s *Store) DroppedRows() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *Store) initFile(name string) error {
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return s.writeRows(name, nil)
}

// =============================================================================
// WORKERS
// =============================================================================

func (s *Store) LoadWorkers(ctx context.Context) ([]payroll.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows(workersFile)
	if err != nil {
		return nil, err
	}

	var workers []payroll.Worker
	for _, row := range rows {
		if len(row) < 5 {
			s.dropped++
			continue
		}
		regular, err1 := decimal.NewFromString(strings.TrimSpace(row[3]))
		overtime, err2 := decimal.NewFromString(strings.TrimSpace(row[4]))
		if row[0] == "" || err1 != nil || err2 != nil {
			s.dropped++
			continue
		}
		workers = append(workers, payroll.Worker{
			Name:         row[0],
			Function:     row[1],
			Crew:         row[2],
			RegularRate:  regular,
			OvertimeRate: overtime,
		})
	}
	return workers, nil
}

func (s *Store) SaveWorkers(ctx context.Context, workers []payroll.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([][]string, len(workers))
	for i, w := range workers {
		rows[i] = []string{w.Name, w.Function, w.Crew, w.RegularRate.String(), w.OvertimeRate.String()}
	}
	return s.writeRows(workersFile, rows)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (s *Store) LoadAttendance(ctx context.Context) ([]payroll.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows(attendanceFile)
	if err != nil {
		return nil, err
	}

	var records []payroll.AttendanceRecord
	for _, row := range rows {
		if len(row) < 4 {
			s.dropped++
			continue
		}
		date, err := payroll.ParseDate(strings.TrimSpace(row[0]))
		if err != nil {
			s.dropped++
			continue
		}
		hours, err := decimal.NewFromString(strings.TrimSpace(row[3]))
		if err != nil || row[2] == "" {
			s.dropped++
			continue
		}
		// A garbled week column isn't worth dropping the row over;
		// re-derive from the date instead.
		week, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			week = date.Week().Week
		}
		records = append(records, payroll.AttendanceRecord{
			Date:   date,
			Week:   week,
			Worker: row[2],
			Hours:  hours,
		})
	}
	return records, nil
}

func (s *Store) SaveAttendance(ctx context.Context, records []payroll.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{rec.Date.String(), strconv.Itoa(rec.Week), rec.Worker, rec.Hours.String()}
	}
	return s.writeRows(attendanceFile, rows)
}

// =============================================================================
// ADVANCES
// =============================================================================

func (s *Store) LoadAdvances(ctx context.Context) ([]payroll.AdvancePayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAdvancesLocked()
}

func (s *Store) loadAdvancesLocked() ([]payroll.AdvancePayment, error) {
	rows, err := s.readRows(advancesFile)
	if err != nil {
		return nil, err
	}

	var advances []payroll.AdvancePayment
	for _, row := range rows {
		if len(row) < 3 {
			s.dropped++
			continue
		}
		date, err := payroll.ParseDate(strings.TrimSpace(row[0]))
		if err != nil {
			s.dropped++
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil || row[1] == "" {
			s.dropped++
			continue
		}
		advances = append(advances, payroll.AdvancePayment{Date: date, Worker: row[1], Amount: amount})
	}
	return advances, nil
}

func (s *Store) AppendAdvance(ctx context.Context, advance payroll.AdvancePayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Rewrite the whole file rather than appending raw bytes: keeps the
	// header intact even if the file was replaced out from under us.
	advances, err := s.loadAdvancesLocked()
	if err != nil {
		return err
	}
	advances = append(advances, advance)
	return s.saveAdvancesLocked(advances)
}

func (s *Store) SaveAdvances(ctx context.Context, advances []payroll.AdvancePayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveAdvancesLocked(advances)
}

func (s *Store) saveAdvancesLocked(advances []payroll.AdvancePayment) error {
	rows := make([][]string, len(advances))
	for i, adv := range advances {
		rows[i] = []string{adv.Date.String(), adv.Worker, adv.Amount.String()}
	}
	return s.writeRows(advancesFile, rows)
}

// =============================================================================
// FILE I/O
// =============================================================================

// readRows returns the data rows of a file, header excluded.
func (s *Store) readRows(name string) ([][]string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	// Legacy files start with a UTF-8 BOM.
	content := strings.TrimPrefix(string(data), "\ufeff")

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if len(all) <= 1 {
		return nil, nil
	}
	return all[1:], nil
}

// writeRows atomically replaces a file with header + rows.
func (s *Store) writeRows(name string, rows [][]string) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(f)
	writer.Comma = ';'
	if err := writer.Write(headers[name]); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
