package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brunobiangulo/dmforge/synth"
)

// ErrRunNotFound is returned when a run ID does not exist in the registry.
var ErrRunNotFound = errors.New("store: run not found")

// Run represents a row in the runs table: one conversion of one source
// document into a set of data modules.
type Run struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Mode      string `json:"mode"`
	IDWidth   int    `json:"id_width"`
	Pages     int    `json:"pages"`
	Sections  int    `json:"sections"`
	Modules   int    `json:"modules"`
	Failed    int    `json:"failed"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Module represents a row in the modules table.
type Module struct {
	RunID         string `json:"run_id"`
	Sequence      int    `json:"sequence"`
	Filename      string `json:"filename"`
	Title         string `json:"title"`
	Domain        string `json:"domain"`
	DomainCode    string `json:"domain_code"`
	ContentType   string `json:"content_type"`
	Applicability string `json:"applicability"`
	HasGraphics   bool   `json:"has_graphics"`
	StartPage     int    `json:"start_page"`
	EndPage       int    `json:"end_page"`
	Summary       string `json:"summary,omitempty"`
}

// NewModule maps a synthesized module into its registry row.
func NewModule(runID string, m synth.Module) Module {
	return Module{
		RunID:         runID,
		Sequence:      m.Sequence,
		Filename:      m.Filename,
		Title:         m.Title,
		Domain:        string(m.Domain),
		DomainCode:    m.DomainCode,
		ContentType:   string(m.ContentType),
		Applicability: m.Applicability,
		HasGraphics:   m.HasGraphics,
		StartPage:     m.StartPage,
		EndPage:       m.EndPage,
		Summary:       m.Summary,
	}
}

// Totals holds counts of key database objects.
type Totals struct {
	Runs    int `json:"runs"`
	Modules int `json:"modules"`
}

// Store wraps the SQLite database for the conversion run registry.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema.
func New(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Create schema
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	// Run pending migrations.
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Run operations ---

// CreateRun inserts a new run record. An empty Status defaults to "running".
func (s *Store) CreateRun(ctx context.Context, run Run) error {
	if run.Status == "" {
		run.Status = "running"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, mode, id_width, pages, sections, modules, failed, status, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.Mode, run.IDWidth, run.Pages, run.Sections,
		run.Modules, run.Failed, run.Status, run.OutputDir)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// FinishRun records the final counts and marks the run done.
func (s *Store) FinishRun(ctx context.Context, id string, pages, sections, modules, failed int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET pages = ?, sections = ?, modules = ?, failed = ?,
			status = 'done', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, pages, sections, modules, failed, id)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	return requireRun(res, id)
}

// FailRun marks the run as errored and records the failure message.
func (s *Store) FailRun(ctx context.Context, id, msg string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = 'error', error = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, msg, id)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	return requireRun(res, id)
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{}
	var errMsg, outputDir sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, mode, id_width, pages, sections, modules, failed, status, error, output_dir, created_at, updated_at
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Source, &run.Mode, &run.IDWidth,
		&run.Pages, &run.Sections, &run.Modules, &run.Failed,
		&run.Status, &errMsg, &outputDir, &run.CreatedAt, &run.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	run.Error = errMsg.String
	run.OutputDir = outputDir.String
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less defaults to 50.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, mode, id_width, pages, sections, modules, failed, status, error, output_dir, created_at, updated_at
		FROM runs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var errMsg, outputDir sql.NullString
		if err := rows.Scan(&r.ID, &r.Source, &r.Mode, &r.IDWidth,
			&r.Pages, &r.Sections, &r.Modules, &r.Failed,
			&r.Status, &errMsg, &outputDir, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.Error = errMsg.String
		r.OutputDir = outputDir.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run; its module rows cascade.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return requireRun(res, id)
}

// --- Module operations ---

// InsertModules inserts the manifest rows for a run in a single transaction.
func (s *Store) InsertModules(ctx context.Context, runID string, modules []Module) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO modules (run_id, sequence, filename, title, domain, domain_code,
				content_type, applicability, has_graphics, start_page, end_page, summary)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, m := range modules {
			if _, err := stmt.ExecContext(ctx,
				runID, m.Sequence, m.Filename, m.Title, m.Domain, m.DomainCode,
				m.ContentType, m.Applicability, m.HasGraphics,
				m.StartPage, m.EndPage, m.Summary); err != nil {
				return fmt.Errorf("inserting module %d: %w", m.Sequence, err)
			}
		}
		return nil
	})
}

// ListModules returns all modules for a run ordered by sequence.
func (s *Store) ListModules(ctx context.Context, runID string) ([]Module, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, sequence, filename, title, domain, domain_code,
			content_type, applicability, has_graphics, start_page, end_page, summary
		FROM modules WHERE run_id = ? ORDER BY sequence
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []Module
	for rows.Next() {
		var m Module
		var applicability, summary sql.NullString
		if err := rows.Scan(&m.RunID, &m.Sequence, &m.Filename, &m.Title,
			&m.Domain, &m.DomainCode, &m.ContentType, &applicability,
			&m.HasGraphics, &m.StartPage, &m.EndPage, &summary); err != nil {
			return nil, err
		}
		m.Applicability = applicability.String
		m.Summary = summary.String
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// GetModule retrieves a single module row by run and filename.
func (s *Store) GetModule(ctx context.Context, runID, filename string) (*Module, error) {
	m := &Module{}
	var applicability, summary sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, sequence, filename, title, domain, domain_code,
			content_type, applicability, has_graphics, start_page, end_page, summary
		FROM modules WHERE run_id = ? AND filename = ?
	`, runID, filename).Scan(&m.RunID, &m.Sequence, &m.Filename, &m.Title,
		&m.Domain, &m.DomainCode, &m.ContentType, &applicability,
		&m.HasGraphics, &m.StartPage, &m.EndPage, &summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrRunNotFound, runID, filename)
	}
	if err != nil {
		return nil, err
	}
	m.Applicability = applicability.String
	m.Summary = summary.String
	return m, nil
}

// --- Diagnostic helpers ---

// Totals returns counts of runs and modules across the whole registry.
func (s *Store) Totals(ctx context.Context) (*Totals, error) {
	t := &Totals{}
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM runs", &t.Runs},
		{"SELECT COUNT(*) FROM modules", &t.Modules},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", q.query, err)
		}
	}
	return t, nil
}

// --- helpers ---

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// requireRun maps a zero-row UPDATE or DELETE to ErrRunNotFound.
func requireRun(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}
