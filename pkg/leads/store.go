package leads

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"github.com/foomo/sitegen/content"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultListLimit caps List when no positive limit is given
const DefaultListLimit = 100

// Store persists leads in a sqlite database
type Store struct {
	db *sql.DB
}

// Open opens or creates the sqlite database at path. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open lead database")
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	s, err := NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore runs the schema against db
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read schema.sql")
	}
	if _, err := db.Exec(string(schema)); err != nil {
		return nil, errors.Wrap(err, "failed to execute schema")
	}
	return &Store{db: db}, nil
}

func (s *Store) Insert(ctx context.Context, lead *content.Lead) error {
	rawData, err := json.Marshal(lead.RawData)
	if err != nil {
		return errors.Wrap(err, "failed to marshal lead data")
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO leads (id, company_name, phone, industry, location, raw_data, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		lead.ID, lead.CompanyName, lead.Phone, lead.Industry, lead.Location, string(rawData), lead.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert lead")
	}
	return nil
}

// List returns the newest leads first
func (s *Store) List(ctx context.Context, limit int) ([]*content.Lead, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, company_name, phone, industry, location, raw_data, created_at FROM leads ORDER BY created_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query leads")
	}
	defer rows.Close()

	ret := []*content.Lead{}
	for rows.Next() {
		var (
			lead      content.Lead
			rawData   string
			createdAt int64
		)
		if err := rows.Scan(&lead.ID, &lead.CompanyName, &lead.Phone, &lead.Industry, &lead.Location, &rawData, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan lead")
		}
		if err := json.Unmarshal([]byte(rawData), &lead.RawData); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal lead %s", lead.ID)
		}
		lead.CreatedAt = time.UnixMilli(createdAt).UTC()
		ret = append(ret, &lead)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate leads")
	}
	return ret, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
