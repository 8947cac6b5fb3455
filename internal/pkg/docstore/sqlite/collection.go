package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/docstore"
)

// Collection is a docstore.Collection over the documents table.
type Collection[T any] struct {
	db   *sql.DB
	name string
	now  func() time.Time
}

func NewCollection[T any](db *sql.DB, name string) *Collection[T] {
	return &Collection[T]{db: db, name: name, now: func() time.Time { return time.Now().UTC() }}
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`, c.name, id)
	return c.scanOne(row)
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	meta, err := docstore.PrepareInsert(doc, c.now())
	if err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sqlite: marshal %s: %w", c.name, err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.name, meta.ID, string(body), formatTime(meta.CreatedAt), formatTime(meta.UpdatedAt))
	if err != nil {
		return fmt.Errorf("sqlite: insert %s: %w", c.name, err)
	}
	return nil
}

// Update replaces the stored body of id with doc.
func (c *Collection[T]) Update(ctx context.Context, id string, doc *T) error {
	current, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	currentMeta, err := docstore.MetaOf(current)
	if err != nil {
		return err
	}
	meta, err := docstore.PrepareUpdate(doc, id, currentMeta.CreatedAt, c.now())
	if err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sqlite: marshal %s: %w", c.name, err)
	}
	res, err := c.db.ExecContext(ctx,
		`UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(body), formatTime(meta.UpdatedAt), c.name, id)
	if err != nil {
		return fmt.Errorf("sqlite: update %s: %w", c.name, err)
	}
	return expectRow(res)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, c.name, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", c.name, err)
	}
	return expectRow(res)
}

// Find returns one page ordered by creation time, plus the total match count.
func (c *Collection[T]) Find(ctx context.Context, q docstore.Query) ([]T, int64, error) {
	q = q.Normalize()
	where, args := c.where(q.Filter)

	var total int64
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count %s: %w", c.name, err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT body FROM documents `+where+` ORDER BY created_at, id LIMIT ? OFFSET ?`,
		append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: find %s: %w", c.name, err)
	}
	defer rows.Close()

	items := make([]T, 0, q.Limit)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scan %s: %w", c.name, err)
		}
		var doc T
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, 0, fmt.Errorf("sqlite: decode %s: %w", c.name, err)
		}
		items = append(items, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterate %s: %w", c.name, err)
	}
	return items, total, nil
}

func (c *Collection[T]) FindOne(ctx context.Context, filter docstore.Filter) (*T, error) {
	where, args := c.where(filter)
	row := c.db.QueryRowContext(ctx,
		`SELECT body FROM documents `+where+` ORDER BY created_at, id LIMIT 1`, args...)
	return c.scanOne(row)
}

// where matches filter fields with json_extract; keys are bound as JSON paths.
func (c *Collection[T]) where(filter docstore.Filter) (string, []any) {
	clauses := []string{"collection = ?"}
	args := []any{c.name}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		clauses = append(clauses, "CAST(json_extract(body, ?) AS TEXT) = ?")
		args = append(args, "$."+k, filter[k])
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (c *Collection[T]) scanOne(row *sql.Row) (*T, error) {
	var body string
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("sqlite: get %s: %w", c.name, err)
	}
	var doc T
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("sqlite: decode %s: %w", c.name, err)
	}
	return &doc, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// formatTime keeps a fixed width so created_at sorts lexically.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
