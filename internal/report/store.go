// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/faculty-scout/internal/resolve"
	"github.com/pdiddy/faculty-scout/pkg/types"
)

const defaultMaxResults = 20

// Store accumulates run records in SQLite. Summaries are indexed with FTS5
// so earlier runs can be searched by topic.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the database at path and its schema.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			university TEXT NOT NULL,
			started_at TEXT NOT NULL,
			elapsed_ms INTEGER,
			total INTEGER,
			dropped INTEGER,
			links_unreachable INTEGER,
			spreadsheet TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS people (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			title TEXT,
			email TEXT,
			research_keywords TEXT,
			profile_link TEXT,
			research_summary TEXT,
			data_source TEXT NOT NULL,
			author_id TEXT,
			verification_status TEXT,
			is_confident_match INTEGER,
			confidence TEXT,
			reason TEXT,
			trace TEXT,
			UNIQUE(run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_people_run_id ON people(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_people_data_source ON people(data_source)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='people_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE people_fts USING fts5(name, research_keywords, research_summary, content=people, content_rowid=rowid)`,
			`CREATE TRIGGER people_ai AFTER INSERT ON people BEGIN
				INSERT INTO people_fts(rowid, name, research_keywords, research_summary)
				VALUES (new.rowid, new.name, new.research_keywords, new.research_summary);
			END`,
			`CREATE TRIGGER people_ad AFTER DELETE ON people BEGIN
				INSERT INTO people_fts(people_fts, rowid, name, research_keywords, research_summary)
				VALUES ('delete', old.rowid, old.name, old.research_keywords, old.research_summary);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveRun stores run with its rows and audit entries and returns the new
// run ID. spreadsheet is the xlsx path written for the run, if any.
func (s *Store) SaveRun(ctx context.Context, run resolve.Run, spreadsheet string) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, url, university, started_at, elapsed_ms, total, dropped, links_unreachable, spreadsheet)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, run.Target.URL, run.Target.University, run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Summary.Elapsed.Milliseconds(), len(run.Results), run.Dropped, run.LinksUnreachable, spreadsheet,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO people (run_id, position, name, title, email, research_keywords, profile_link,
			research_summary, data_source, author_id, verification_status, is_confident_match,
			confidence, reason, trace)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range Audit(run.Results) {
		row := run.Results[i].Row
		traceJSON, _ := json.Marshal(a.Trace)
		_, err := stmt.ExecContext(ctx,
			id, i, row.Name, row.Title, row.Email, row.ResearchKeywords, row.ProfileLink,
			row.ResearchSummary, string(row.DataSource), a.AuthorID, string(a.VerificationStatus),
			a.IsConfidentMatch, string(a.Confidence), a.Reason, string(traceJSON),
		)
		if err != nil {
			return "", fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// RunRecord is one stored run.
type RunRecord struct {
	ID               string        `json:"id" yaml:"id"`
	URL              string        `json:"url" yaml:"url"`
	University       string        `json:"university" yaml:"university"`
	StartedAt        time.Time     `json:"started_at" yaml:"started_at"`
	Elapsed          time.Duration `json:"elapsed" yaml:"elapsed"`
	Total            int           `json:"total" yaml:"total"`
	Dropped          int           `json:"dropped" yaml:"dropped"`
	LinksUnreachable bool          `json:"links_unreachable" yaml:"links_unreachable"`
	Spreadsheet      string        `json:"spreadsheet,omitempty" yaml:"spreadsheet,omitempty"`
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, university, started_at, elapsed_ms, total, dropped, links_unreachable, spreadsheet
		 FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			r           RunRecord
			started     string
			elapsedMS   int64
			spreadsheet sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.URL, &r.University, &started, &elapsedMS,
			&r.Total, &r.Dropped, &r.LinksUnreachable, &spreadsheet); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		r.Spreadsheet = spreadsheet.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryOptions filters Search.
type QueryOptions struct {
	// Query is an FTS5 match over name, keywords and summary.
	Query string

	// DataSource keeps rows from one source.
	DataSource types.DataSource

	// RunID keeps rows from one run.
	RunID string

	// MaxResults limits result count. Zero uses 20.
	MaxResults int
}

// StoredRow is a report row with its run and verdict.
type StoredRow struct {
	types.OutputRow    `yaml:",inline"`
	RunID              string                   `json:"run_id" yaml:"run_id"`
	University         string                   `json:"university" yaml:"university"`
	AuthorID           string                   `json:"author_id,omitempty" yaml:"author_id,omitempty"`
	VerificationStatus types.VerificationStatus `json:"verification_status,omitempty" yaml:"verification_status,omitempty"`
	Confidence         types.Confidence         `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Trace              []resolve.Step           `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// Search returns stored rows, ranked by relevance for full-text queries or
// in run and position order otherwise.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]StoredRow, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	const cols = `p.run_id, r.university, p.name, p.title, p.email, p.research_keywords, p.profile_link,
		p.research_summary, p.data_source, p.author_id, p.verification_status, p.confidence, p.trace`
	if useFTS {
		qb.WriteString(`SELECT ` + cols + `
			FROM people_fts
			JOIN people p ON p.rowid = people_fts.rowid
			JOIN runs r ON r.id = p.run_id
			WHERE people_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT ` + cols + `
			FROM people p
			JOIN runs r ON r.id = p.run_id
			WHERE 1=1`)
	}

	if opts.DataSource != "" {
		qb.WriteString(` AND p.data_source = ?`)
		args = append(args, string(opts.DataSource))
	}
	if opts.RunID != "" {
		qb.WriteString(` AND p.run_id = ?`)
		args = append(args, opts.RunID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY people_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY r.started_at, p.run_id, p.position`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []StoredRow
	for rows.Next() {
		var (
			sr                   StoredRow
			source, status, conf string
			authorID, traceJSON  sql.NullString
		)
		if err := rows.Scan(&sr.RunID, &sr.University, &sr.Name, &sr.Title, &sr.Email,
			&sr.ResearchKeywords, &sr.ProfileLink, &sr.ResearchSummary, &source,
			&authorID, &status, &conf, &traceJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		sr.DataSource = types.DataSource(source)
		sr.VerificationStatus = types.VerificationStatus(status)
		sr.Confidence = types.Confidence(conf)
		sr.AuthorID = authorID.String
		if traceJSON.Valid {
			json.Unmarshal([]byte(traceJSON.String), &sr.Trace)
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}
