// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/sharedgoals/internal/models"
	"github.com/mmynk/sharedgoals/internal/storage"
)

// MemoryPath opens a private in-memory database that lives as long as the store.
const MemoryPath = ":memory:"

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
// Use MemoryPath for a database scoped to the process.
func New(dbPath string) (*SQLiteStore, error) {
	if !isMemoryPath(dbPath) {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection: SQLite serializes writers anyway, and an
	// in-memory database exists per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func isMemoryPath(path string) bool {
	return path == MemoryPath || strings.Contains(path, "mode=memory") || strings.HasPrefix(path, "file::memory:")
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateGoal persists a new goal and its members.
func (s *SQLiteStore) CreateGoal(ctx context.Context, goal *models.SharedGoal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	if goal.CreatedAt == 0 {
		goal.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO goals (id, name, target_date, target_amount, total_saved, changes_remaining, settlement_pending, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Name, goal.TargetDate, goal.TargetAmount, goal.TotalSaved,
		goal.ChangesRemaining, goal.SettlementPending, goal.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	if err := insertMembers(ctx, tx, goal); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGoal retrieves a goal by ID, including its members.
func (s *SQLiteStore) GetGoal(ctx context.Context, goalID string) (*models.SharedGoal, error) {
	goal := &models.SharedGoal{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, target_date, target_amount, total_saved, changes_remaining, settlement_pending, created_at
		 FROM goals WHERE id = ?`,
		goalID,
	).Scan(&goal.ID, &goal.Name, &goal.TargetDate, &goal.TargetAmount, &goal.TotalSaved,
		&goal.ChangesRemaining, &goal.SettlementPending, &goal.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %s: %w", goalID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	members, err := listMembers(ctx, s.db, goalID)
	if err != nil {
		return nil, err
	}
	goal.Members = members
	return goal, nil
}

// ListGoals returns all goals in creation order.
func (s *SQLiteStore) ListGoals(ctx context.Context) ([]*models.SharedGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, target_date, target_amount, total_saved, changes_remaining, settlement_pending, created_at
		 FROM goals ORDER BY created_at, rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	var goals []*models.SharedGoal
	for rows.Next() {
		goal := &models.SharedGoal{}
		if err := rows.Scan(&goal.ID, &goal.Name, &goal.TargetDate, &goal.TargetAmount, &goal.TotalSaved,
			&goal.ChangesRemaining, &goal.SettlementPending, &goal.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	// Members are loaded after the goal rows are closed; the store holds a
	// single connection.
	for _, goal := range goals {
		members, err := listMembers(ctx, s.db, goal.ID)
		if err != nil {
			return nil, err
		}
		goal.Members = members
	}
	return goals, nil
}

// UpdateGoal replaces the goal row and its member list.
func (s *SQLiteStore) UpdateGoal(ctx context.Context, goal *models.SharedGoal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateGoal(ctx, tx, goal); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RecordTransaction updates the goal balances and appends the transaction atomically.
func (s *SQLiteStore) RecordTransaction(ctx context.Context, goal *models.SharedGoal, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateGoal(ctx, tx, goal); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (id, goal_id, member_id, member_name, amount, type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.GoalID, t.MemberID, t.MemberName, t.Amount, string(t.Type), t.Date.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListTransactions retrieves a goal's transactions, newest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, goalID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, goal_id, member_id, member_name, amount, type, created_at
		 FROM transactions WHERE goal_id = ? ORDER BY created_at DESC, rowid DESC`,
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		var txType string
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.GoalID, &t.MemberID, &t.MemberName, &t.Amount, &txType, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Type = models.TransactionType(txType)
		t.Date = time.Unix(0, createdAt)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

// DeleteGoal removes a goal; members cascade, transactions stay.
func (s *SQLiteStore) DeleteGoal(ctx context.Context, goalID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("goal %s: %w", goalID, storage.ErrNotFound)
	}
	return nil
}

func updateGoal(ctx context.Context, q querier, goal *models.SharedGoal) error {
	res, err := q.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_date = ?, target_amount = ?, total_saved = ?,
		 changes_remaining = ?, settlement_pending = ? WHERE id = ?`,
		goal.Name, goal.TargetDate, goal.TargetAmount, goal.TotalSaved,
		goal.ChangesRemaining, goal.SettlementPending, goal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("goal %s: %w", goal.ID, storage.ErrNotFound)
	}

	if _, err := q.ExecContext(ctx, "DELETE FROM members WHERE goal_id = ?", goal.ID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}
	return insertMembers(ctx, q, goal)
}

func insertMembers(ctx context.Context, q querier, goal *models.SharedGoal) error {
	for i, m := range goal.Members {
		_, err := q.ExecContext(ctx,
			`INSERT INTO members (goal_id, id, position, name, initials, color, contribution, role)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			goal.ID, m.ID, i, m.Name, m.Initials, m.Color, m.Contribution, string(m.Role),
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}
	return nil
}

func listMembers(ctx context.Context, q querier, goalID string) ([]models.Member, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, initials, color, contribution, role
		 FROM members WHERE goal_id = ? ORDER BY position`,
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var role string
		if err := rows.Scan(&m.ID, &m.Name, &m.Initials, &m.Color, &m.Contribution, &role); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Role = models.Role(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}
