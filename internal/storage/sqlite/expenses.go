package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settlewise/internal/models"
)

// CreateExpense persists an expense and its participants in one transaction.
// The payer and participants who are not yet group members are added to the
// group in the same transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, description, paid_by, amount, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.PaidBy,
		expense.Amount, expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, name := range expenseParticipants(expense) {
		var share any
		if amount, ok := expense.Shares[name]; ok {
			share = amount
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, name, position, share) VALUES (?, ?, ?, ?)",
			expense.ID, name, i, share,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}

	names := append([]string{expense.PaidBy}, expenseParticipants(expense)...)
	if err := addMembers(ctx, tx, expense.GroupID, names); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpensesByGroup retrieves all expenses for a group, oldest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, paid_by, amount, created_by, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.ID, &e.GroupID, &e.Description, &e.PaidBy,
			&e.Amount, &e.CreatedBy, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
		byID[e.ID] = e
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if len(expenses) == 0 {
		return expenses, nil
	}

	args := make([]any, len(expenses))
	for i, e := range expenses {
		args[i] = e.ID
	}
	partRows, err := s.db.QueryContext(ctx,
		`SELECT expense_id, name, share FROM expense_participants
		 WHERE expense_id IN (`+placeholders(len(args))+`) ORDER BY expense_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense participants: %w", err)
	}
	defer partRows.Close()

	for partRows.Next() {
		var expenseID, name string
		var share sql.NullInt64
		if err := partRows.Scan(&expenseID, &name, &share); err != nil {
			return nil, fmt.Errorf("failed to scan expense participant: %w", err)
		}
		e := byID[expenseID]
		e.Participants = append(e.Participants, name)
		if share.Valid {
			if e.Shares == nil {
				e.Shares = make(map[string]int64)
			}
			e.Shares[name] = share.Int64
		}
	}
	if err := partRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense participants: %w", err)
	}

	return expenses, nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted expense: %w", err)
	}
	if affected == 0 {
		return notFound("expense", expenseID)
	}
	return nil
}

// expenseParticipants lists everyone sharing the expense: the declared
// participants first, then any name that only appears in Shares.
func expenseParticipants(expense *models.Expense) []string {
	names := dedupe(expense.Participants)
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	var extra []string
	for name := range expense.Shares {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(names, extra...)
}
