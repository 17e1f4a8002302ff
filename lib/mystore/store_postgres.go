package mystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createDocumentsTable = `CREATE TABLE IF NOT EXISTS documents (
	kind TEXT NOT NULL,
	uid TEXT NOT NULL,
	doc JSONB NOT NULL,
	PRIMARY KEY (kind, uid)
)`

var validField = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type querier interface {
	Exec(c context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(c context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(c context.Context, sql string, args ...any) pgx.Row
}

// postgresStore keeps every entity as a JSONB document; filters address top-level JSON keys.
type postgresStore[T any] struct {
	pool *pgxpool.Pool
	kind string
}

func newPostgresStore[T any](c context.Context, databaseURL string) (*postgresStore[T], func(), error) {
	pool, err := pgxpool.New(c, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating postgres-pool: %s", err)
	}

	_, err = pool.Exec(c, createDocumentsTable)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("error creating documents table: %s", err)
	}

	return &postgresStore[T]{
			pool: pool,
			kind: kindOf[T](),
		}, func() {
			pool.Close()
		}, nil
}

func (s *postgresStore[T]) db(c context.Context) querier {
	tx, ok := c.Value(ctxTransactionKey{}).(pgx.Tx)
	if ok {
		return tx
	}
	return s.pool
}

func (s *postgresStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	if _, ok := c.Value(ctxTransactionKey{}).(pgx.Tx); ok {
		return f(c)
	}

	tx, err := s.pool.Begin(c)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	err = f(context.WithValue(c, ctxTransactionKey{}, tx))
	if err != nil {
		_ = tx.Rollback(c)
		return err
	}

	err = tx.Commit(c)
	if err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

func (s *postgresStore[T]) Put(c context.Context, uid string, value T) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error marshalling entity %s with uid %s: %s", s.kind, uid, err)
	}

	_, err = s.db(c).Exec(c,
		`INSERT INTO documents(kind, uid, doc) VALUES ($1, $2, $3)
		 ON CONFLICT (kind, uid) DO UPDATE SET doc = EXCLUDED.doc`, s.kind, uid, doc)
	if err != nil {
		return fmt.Errorf("error storing entity %s with uid %s: %s", s.kind, uid, err)
	}

	return nil
}

// Insert relies on the primary key to let exactly one concurrent writer win.
func (s *postgresStore[T]) Insert(c context.Context, uid string, value T) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error marshalling entity %s with uid %s: %s", s.kind, uid, err)
	}

	_, err = s.db(c).Exec(c, `INSERT INTO documents(kind, uid, doc) VALUES ($1, $2, $3)`, s.kind, uid, doc)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("entity %s with uid %s: %w", s.kind, uid, ErrAlreadyExists)
		}
		return fmt.Errorf("error inserting entity %s with uid %s: %s", s.kind, uid, err)
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (s *postgresStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	value := new(T)

	sql := `SELECT doc FROM documents WHERE kind = $1 AND uid = $2`
	if _, ok := c.Value(ctxTransactionKey{}).(pgx.Tx); ok {
		sql += ` FOR UPDATE`
	}

	var doc []byte
	err := s.db(c).QueryRow(c, sql, s.kind, uid).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return *value, false, nil
		}
		return *value, false, fmt.Errorf("error fetching entity %s with uid %s: %s", s.kind, uid, err)
	}

	err = json.Unmarshal(doc, value)
	if err != nil {
		return *value, false, fmt.Errorf("error unmarshalling entity %s with uid %s: %s", s.kind, uid, err)
	}

	return *value, true, nil
}

func (s *postgresStore[T]) Delete(c context.Context, uid string) error {
	_, err := s.db(c).Exec(c, `DELETE FROM documents WHERE kind = $1 AND uid = $2`, s.kind, uid)
	if err != nil {
		return fmt.Errorf("error deleting entity %s with uid %s: %s", s.kind, uid, err)
	}
	return nil
}

func (s *postgresStore[T]) List(c context.Context) ([]T, error) {
	return s.Query(c, nil, "")
}

func (s *postgresStore[T]) Query(c context.Context, filters []Filter, orderByField string) ([]T, error) {
	sql, args, err := s.composeQuery(filters, orderByField)
	if err != nil {
		return nil, err
	}

	rows, err := s.db(c).Query(c, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying entities %s: %s", s.kind, err)
	}
	defer rows.Close()

	result := []T{}
	for rows.Next() {
		var doc []byte
		err := rows.Scan(&doc)
		if err != nil {
			return nil, fmt.Errorf("error scanning entity %s: %s", s.kind, err)
		}
		value := new(T)
		err = json.Unmarshal(doc, value)
		if err != nil {
			return nil, fmt.Errorf("error unmarshalling entity %s: %s", s.kind, err)
		}
		result = append(result, *value)
	}

	return result, rows.Err()
}

func (s *postgresStore[T]) composeQuery(filters []Filter, orderByField string) (string, []any, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT doc FROM documents WHERE kind = $1`)
	args := []any{s.kind}

	for _, f := range filters {
		if !validField.MatchString(f.Field) {
			return "", nil, fmt.Errorf("invalid filter field %q", f.Field)
		}
		switch f.Compare {
		case "=", "<", "<=", ">", ">=":
		default:
			return "", nil, fmt.Errorf("unsupported comparison %q", f.Compare)
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return "", nil, fmt.Errorf("error marshalling filter value: %s", err)
		}
		args = append(args, value)
		fmt.Fprintf(&sb, ` AND doc->'%s' %s $%d::jsonb`, f.Field, f.Compare, len(args))
	}

	if orderByField != "" {
		if !validField.MatchString(orderByField) {
			return "", nil, fmt.Errorf("invalid order field %q", orderByField)
		}
		fmt.Fprintf(&sb, ` ORDER BY doc->'%s'`, orderByField)
	} else {
		sb.WriteString(` ORDER BY uid`)
	}

	return sb.String(), args, nil
}
