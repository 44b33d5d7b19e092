// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settlewise/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations used by the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	GroupStore
	ExpenseStore
	SettlementStore
	UserStore

	// Close releases any resources held by the store.
	Close() error
}

// GroupStore persists groups and their members.
type GroupStore interface {
	// CreateGroup persists a new group. ID and CreatedAt are populated when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members in join order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMembers appends members that are not already in the group.
	AddGroupMembers(ctx context.Context, groupID string, members []string) error

	// DeleteGroup removes a group and everything recorded in it.
	DeleteGroup(ctx context.Context, groupID string) error
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	// CreateExpense persists an expense. Names on it that are not yet group
	// members are added to the group atomically with the expense.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error
}

// SettlementStore persists recorded payments.
type SettlementStore interface {
	// CreateSettlement persists a payment, adding either party to the group
	// atomically when they are not yet a member.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
	DeleteSettlement(ctx context.Context, settlementID string) error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns nil, nil when no user has the ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
