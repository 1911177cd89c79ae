package material

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahayak-app/sahayak/internal/artifact"
)

// minPrefix is the shortest ID prefix Get accepts.
const minPrefix = 4

// ErrAmbiguous is returned when an ID prefix matches more than one material.
var ErrAmbiguous = errors.New("material id prefix is ambiguous")

// SQLiteStore implements Store on the history database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store on an open, migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const materialColumns = `id, kind, thread_id, session_id, topic_id, day_id, grade_id, payload, published, created_at, updated_at`

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, m *Material) error {
	payload, err := artifact.Encode(m.Payload)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO materials (`+materialColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, string(m.Kind), m.ThreadID, m.SessionID,
		m.Scope.TopicID, m.Scope.DayID, m.Scope.GradeID,
		string(payload), m.Published, now.UnixMilli(), now.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving material: %w", err)
	}

	m.CreatedAt = time.UnixMilli(now.UnixMilli())
	m.UpdatedAt = m.CreatedAt
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Material, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = ?`, id)
	m, err := scanMaterial(row)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting material: %w", err)
	}
	if len(id) < minPrefix {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id LIKE ? ESCAPE '\' LIMIT 2`, escapeLike(id)+"%")
	if err != nil {
		return nil, fmt.Errorf("getting material: %w", err)
	}
	matches, err := collect(rows)
	if err != nil {
		return nil, fmt.Errorf("getting material: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]*Material, error) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.ThreadID != "" {
		where = append(where, "thread_id = ?")
		args = append(args, f.ThreadID)
	}
	if f.TopicID != "" {
		where = append(where, "topic_id = ?")
		args = append(args, f.TopicID)
	}

	query := `SELECT ` + materialColumns + ` FROM materials`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing materials: %w", err)
	}
	materials, err := collect(rows)
	if err != nil {
		return nil, fmt.Errorf("listing materials: %w", err)
	}
	return materials, nil
}

// MarkPublished implements Store.
func (s *SQLiteStore) MarkPublished(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE materials SET published = 1, updated_at = ? WHERE id = ?`, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("marking material published: %w", err)
	}
	return requireRow(res)
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM materials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting material: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMaterial(row scanner) (*Material, error) {
	var (
		m                  Material
		kind, payload      string
		published          bool
		createdAt, updated int64
	)
	err := row.Scan(&m.ID, &kind, &m.ThreadID, &m.SessionID,
		&m.Scope.TopicID, &m.Scope.DayID, &m.Scope.GradeID,
		&payload, &published, &createdAt, &updated)
	if err != nil {
		return nil, err
	}

	m.Kind = artifact.Kind(kind)
	m.Published = published
	m.CreatedAt = time.UnixMilli(createdAt)
	m.UpdatedAt = time.UnixMilli(updated)

	m.Payload, err = artifact.Decode(m.Kind, []byte(payload))
	if err != nil {
		return nil, fmt.Errorf("decoding stored %s %s: %w", m.Kind, m.ID, err)
	}
	return &m, nil
}

func collect(rows *sql.Rows) ([]*Material, error) {
	defer rows.Close()

	var out []*Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
