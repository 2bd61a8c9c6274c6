package patent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kailas-cloud/patentsim/internal/db"
	"github.com/kailas-cloud/patentsim/internal/domain"
)

// Repo implements the corpus store on the patents table.
type Repo struct {
	db *sql.DB
}

// New creates a patent repository.
func New(sqlDB *sql.DB) *Repo {
	return &Repo{db: sqlDB}
}

// Upsert inserts the record unless its number already exists.
// Returns true if a row was inserted; an existing number is left untouched.
func (r *Repo) Upsert(ctx context.Context, p domain.Patent) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO patents (number, title, abstract, claims) VALUES (?, ?, ?, ?)`,
		p.Number, p.Title, p.Abstract, p.Claims,
	)
	if err != nil {
		return false, fmt.Errorf("upsert %s: %w", p.Number, &db.Error{Op: db.OpInsert, Err: err})
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upsert %s rows affected: %w", p.Number, err)
	}
	return n > 0, nil
}

// ListAll returns every record in insertion order.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Patent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT number, title, abstract, claims FROM patents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list patents: %w", &db.Error{Op: db.OpSelect, Err: err})
	}
	return scanPatents(rows)
}

// List returns one page of records in insertion order.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]domain.Patent, error) {
	if limit <= 0 {
		return []domain.Patent{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT number, title, abstract, claims FROM patents ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list patents page: %w", &db.Error{Op: db.OpSelect, Err: err})
	}
	return scanPatents(rows)
}

// Get returns the record with the given number.
func (r *Repo) Get(ctx context.Context, number string) (domain.Patent, error) {
	var p domain.Patent
	var title, abstract, claims sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT number, title, abstract, claims FROM patents WHERE number = ?`, number,
	).Scan(&p.Number, &title, &abstract, &claims)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Patent{}, fmt.Errorf("get %s: %w", number, domain.ErrPatentNotFound)
		}
		return domain.Patent{}, fmt.Errorf("get %s: %w", number, &db.Error{Op: db.OpSelect, Err: err})
	}
	p.Title, p.Abstract, p.Claims = title.String, abstract.String, claims.String
	return p, nil
}

// Count returns the number of stored records.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patents: %w", &db.Error{Op: db.OpCount, Err: err})
	}
	return n, nil
}

// scanPatents drains rows. NULL text columns read as "".
func scanPatents(rows *sql.Rows) ([]domain.Patent, error) {
	defer func() { _ = rows.Close() }()

	out := []domain.Patent{}
	for rows.Next() {
		var p domain.Patent
		var title, abstract, claims sql.NullString
		if err := rows.Scan(&p.Number, &title, &abstract, &claims); err != nil {
			return nil, fmt.Errorf("scan patent: %w", err)
		}
		p.Title, p.Abstract, p.Claims = title.String, abstract.String, claims.String
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patents: %w", err)
	}
	return out, nil
}
