// Package store persists request history and a finalize-result cache for
// the glaemscribe server, backed by SQLite: plain database/sql over
// modernc.org/sqlite, one *sql.DB holding both tables, rezi.EncBinary +
// base64 for blob columns, and a wrapDBError helper that turns
// sql.ErrNoRows into ErrNotFound and sqlite errors into plain errors naming
// the sqlite result code.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a lookup finds no matching row.
	ErrNotFound = errors.New("the requested entity could not be found")
)

// RequestLogEntry is one recorded transcription request.
type RequestLogEntry struct {
	ID          uuid.UUID
	Mode        string
	InputLen    int
	OutputLen   int
	OK          bool
	WarnCount   int
	RequestedAt time.Time
}

// FinalizeResult is the cached outcome of finalizing a mode with a
// particular set of options, keyed by Fingerprint. Mode option resolution
// is pure given (mode name, options), so a server handling repeated
// requests for the same mode/option combination can skip re-finalizing
// and reuse the cached verdict instead.
type FinalizeResult struct {
	OK        bool
	Error     string
	Options   map[string]string
	CreatedAt time.Time
}

// Store is the persistence surface the API layer depends on.
type Store interface {
	RecordRequest(ctx context.Context, e RequestLogEntry) error
	RecentRequests(ctx context.Context, limit int) ([]RequestLogEntry, error)

	GetFinalizeResult(ctx context.Context, fingerprint string) (FinalizeResult, bool, error)
	PutFinalizeResult(ctx context.Context, fingerprint string, r FinalizeResult) error
}

// Fingerprint derives a stable cache key for a mode name and its resolved
// option overrides. Option iteration order doesn't matter to the result,
// so keys are sorted before hashing.
func Fingerprint(mode string, options map[string]string) string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	h.Write([]byte(mode))
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(options[k]))
	}
	return hex.EncodeToString(h.Sum(nil))
}

type sqliteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database file "glaem.db"
// inside storageDir and ensures its schema exists.
func Open(storageDir string) (Store, error) {
	path := filepath.Join(storageDir, "glaem.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}

	s := &sqliteStore{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sqliteStore) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS request_log (
			id TEXT NOT NULL PRIMARY KEY,
			mode TEXT NOT NULL,
			input_len INTEGER NOT NULL,
			output_len INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			warn_count INTEGER NOT NULL,
			created INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS finalize_cache (
			fingerprint TEXT NOT NULL PRIMARY KEY,
			mode TEXT NOT NULL,
			ok INTEGER NOT NULL,
			error TEXT NOT NULL,
			options_blob TEXT NOT NULL,
			created INTEGER NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return wrapDBError(err)
		}
	}
	return nil
}

func (s *sqliteStore) RecordRequest(ctx context.Context, e RequestLogEntry) error {
	if e.ID == uuid.Nil {
		var err error
		e.ID, err = uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("could not generate ID: %w", err)
		}
	}
	if e.RequestedAt.IsZero() {
		e.RequestedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO request_log (id, mode, input_len, output_len, ok, warn_count, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Mode, e.InputLen, e.OutputLen, boolToInt(e.OK), e.WarnCount, e.RequestedAt.Unix(),
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (s *sqliteStore) RecentRequests(ctx context.Context, limit int) ([]RequestLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, input_len, output_len, ok, warn_count, created FROM request_log ORDER BY rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var out []RequestLogEntry
	for rows.Next() {
		var e RequestLogEntry
		var id string
		var ok int
		var created int64
		if err := rows.Scan(&id, &e.Mode, &e.InputLen, &e.OutputLen, &ok, &e.WarnCount, &created); err != nil {
			return nil, wrapDBError(err)
		}
		e.ID, err = uuid.Parse(id)
		if err != nil {
			return out, fmt.Errorf("stored UUID %q is invalid", id)
		}
		e.OK = ok != 0
		e.RequestedAt = time.Unix(created, 0)
		out = append(out, e)
	}
	return out, nil
}

func (s *sqliteStore) GetFinalizeResult(ctx context.Context, fingerprint string) (FinalizeResult, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT ok, error, options_blob, created FROM finalize_cache WHERE fingerprint = ?`, fingerprint,
	)

	var ok int
	var errMsg, blob string
	var created int64
	err := row.Scan(&ok, &errMsg, &blob, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return FinalizeResult{}, false, nil
	}
	if err != nil {
		return FinalizeResult{}, false, wrapDBError(err)
	}

	opts, decErr := decodeOptions(blob)
	if decErr != nil {
		return FinalizeResult{}, false, fmt.Errorf("decoding cached options: %w", decErr)
	}

	return FinalizeResult{OK: ok != 0, Error: errMsg, Options: opts, CreatedAt: time.Unix(created, 0)}, true, nil
}

func (s *sqliteStore) PutFinalizeResult(ctx context.Context, fingerprint string, r FinalizeResult) error {
	blob, err := encodeOptions(r.Options)
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO finalize_cache (fingerprint, mode, ok, error, options_blob, created)
		 VALUES (?, '', ?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET ok=excluded.ok, error=excluded.error, options_blob=excluded.options_blob, created=excluded.created`,
		fingerprint, boolToInt(r.OK), r.Error, blob, time.Now().Unix(),
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func encodeOptions(opts map[string]string) (string, error) {
	data := rezi.EncBinary(opts)
	return base64.StdEncoding.EncodeToString(data), nil
}

func decodeOptions(blob string) (map[string]string, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, err
	}
	var opts map[string]string
	n, err := rezi.DecBinary(data, &opts)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}
	return opts, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
