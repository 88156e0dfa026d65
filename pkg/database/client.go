package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNoResult is returned by QueryOne and Get when the statement produced no rows.
	ErrNoResult = errors.New("database: no result")
	// ErrTxActive is returned by Begin when the client already holds an open transaction.
	ErrTxActive = errors.New("database: transaction already active")
	// ErrNoTx is returned by Commit and Rollback when no transaction is open.
	ErrNoTx = errors.New("database: no active transaction")
	// ErrNoReturning is returned by Insert for statements without a RETURNING clause.
	ErrNoReturning = errors.New("database: insert requires a RETURNING clause")
)

var returningPattern = regexp.MustCompile(`(?i)\breturning\b`)

// Row is a single result row keyed by column name.
type Row map[string]interface{}

// QueryObserver receives the duration of every statement the client runs.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// Option customises a Client.
type Option func(*Client)

// WithObserver attaches a statement timing observer.
func WithObserver(observer QueryObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// Client wraps the connection pool with row-map helpers and single-level transaction state.
// A Client is safe for concurrent use, but while a transaction is open every call on it runs inside that
// transaction. Request-scoped work that needs its own transaction should use Session.
type Client struct {
	db       *sqlx.DB
	observer QueryObserver

	mu sync.Mutex
	tx *sqlx.Tx
}

// NewClient wraps an open pool.
func NewClient(db *sqlx.DB, opts ...Option) *Client {
	c := &Client{db: db}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a client sharing the pool and observer with no transaction state of its own.
func (c *Client) Session() *Client {
	return &Client{db: c.db, observer: c.observer}
}

// Ping verifies the pool can reach the server.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Query runs a statement and returns every row. The result is never nil.
func (c *Client) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	defer c.observe(query, time.Now())

	rows, err := c.ext().QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	result := make([]Row, 0)
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result = append(result, normalize(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// QueryOne returns the first row of the result or ErrNoResult.
func (c *Client) QueryOne(ctx context.Context, query string, args ...interface{}) (Row, error) {
	rows, err := c.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoResult
	}
	return rows[0], nil
}

// Select scans every row into dest, which must be a pointer to a slice.
func (c *Client) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	defer c.observe(query, time.Now())
	return sqlx.SelectContext(ctx, c.ext(), dest, query, args...)
}

// Get scans a single row into dest. No rows maps to ErrNoResult.
func (c *Client) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	defer c.observe(query, time.Now())
	err := sqlx.GetContext(ctx, c.ext(), dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoResult
	}
	return err
}

// Execute runs a statement and returns the number of affected rows.
func (c *Client) Execute(ctx context.Context, query string, args ...interface{}) (int64, error) {
	defer c.observe(query, time.Now())

	res, err := c.ext().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("execute: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// Insert runs an INSERT ... RETURNING <id> statement and returns the generated identifier.
func (c *Client) Insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	if !returningPattern.MatchString(query) {
		return 0, ErrNoReturning
	}
	defer c.observe(query, time.Now())

	var id int64
	if err := c.ext().QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	return id, nil
}

// Begin opens a transaction. Nesting is not supported.
func (c *Client) Begin(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tx != nil {
		return ErrTxActive
	}
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	c.tx = tx
	return nil
}

// Commit commits the open transaction.
func (c *Client) Commit() error {
	tx, err := c.takeTx()
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Rollback aborts the open transaction.
func (c *Client) Rollback() error {
	tx, err := c.takeTx()
	if err != nil {
		return err
	}
	return tx.Rollback()
}

// InTransaction reports whether a transaction is open.
func (c *Client) InTransaction() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tx != nil
}

// WithTx runs fn inside a fresh session transaction, committing on success and rolling back on error.
func (c *Client) WithTx(ctx context.Context, fn func(*Client) error) error {
	session := c.Session()
	if err := session.Begin(ctx); err != nil {
		return err
	}
	if err := fn(session); err != nil {
		_ = session.Rollback()
		return err
	}
	return session.Commit()
}

func (c *Client) takeTx() (*sqlx.Tx, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tx == nil {
		return nil, ErrNoTx
	}
	tx := c.tx
	c.tx = nil
	return tx, nil
}

func (c *Client) ext() sqlx.ExtContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

func (c *Client) observe(query string, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveDBQuery(statementLabel(query), time.Since(start))
}

// statementLabel keeps metric cardinality low by labelling on the leading keyword only.
func statementLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

func normalize(row map[string]interface{}) Row {
	for k, v := range row {
		if b, ok := v.([]byte); ok {
			row[k] = string(b)
		}
	}
	return Row(row)
}
