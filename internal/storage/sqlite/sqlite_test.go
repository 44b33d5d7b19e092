package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settlewise/internal/models"
	"github.com/mmynk/settlewise/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	store, err := New(dbPath)
	require.NoError(t, err, "Failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and defaults", func(t *testing.T) {
		group := &models.Group{
			Name:    "Roommates",
			Members: []string{"Alice", "Bob", "Alice", ""},
		}
		require.NoError(t, store.CreateGroup(ctx, group))

		assert.NotEmpty(t, group.ID)
		assert.NotZero(t, group.CreatedAt)
		assert.Equal(t, "USD", group.Currency)
		assert.Equal(t, []string{"Alice", "Bob"}, group.Members, "duplicates and blanks are dropped")
	})

	t.Run("GetGroup keeps member order", func(t *testing.T) {
		original := &models.Group{
			Name:     "Ski Trip",
			Currency: "EUR",
			Members:  []string{"Zoe", "Adam", "Mia"},
		}
		require.NoError(t, store.CreateGroup(ctx, original))

		retrieved, err := store.GetGroup(ctx, original.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ski Trip", retrieved.Name)
		assert.Equal(t, "EUR", retrieved.Currency)
		assert.Equal(t, []string{"Zoe", "Adam", "Mia"}, retrieved.Members)
	})

	t.Run("AddGroupMembers appends only new names", func(t *testing.T) {
		group := &models.Group{Name: "Office", Members: []string{"Alice"}}
		require.NoError(t, store.CreateGroup(ctx, group))
		require.NoError(t, store.AddGroupMembers(ctx, group.ID, []string{"Bob", "Alice", "Charlie", "Bob"}))

		retrieved, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, retrieved.Members)
	})

	t.Run("ListGroups returns every group", func(t *testing.T) {
		groups, err := store.ListGroups(ctx)
		require.NoError(t, err)
		assert.Len(t, groups, 3)
		for _, g := range groups {
			assert.NotEmpty(t, g.Members, "group %s has no members loaded", g.Name)
		}
	})

	t.Run("GetGroup returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestExpensesAndSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Members: []string{"Alice", "Bob", "Charlie"}}
	require.NoError(t, store.CreateGroup(ctx, group))

	equal := &models.Expense{
		GroupID:      group.ID,
		Description:  "Dinner",
		PaidBy:       "Alice",
		Amount:       9000,
		Participants: []string{"Alice", "Bob", "Charlie"},
		CreatedAt:    100,
	}
	exact := &models.Expense{
		GroupID:      group.ID,
		Description:  "Taxi",
		PaidBy:       "Bob",
		Amount:       2500,
		Participants: []string{"Charlie"},
		Shares:       map[string]int64{"Charlie": 2000, "Alice": 500},
		CreatedAt:    200,
	}
	for _, e := range []*models.Expense{equal, exact} {
		require.NoError(t, store.CreateExpense(ctx, e))
		assert.NotEmpty(t, e.ID, "Expected expense ID to be generated")
	}

	t.Run("ListExpensesByGroup restores participants and shares", func(t *testing.T) {
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 2)

		dinner := expenses[0]
		assert.Equal(t, "Dinner", dinner.Description)
		assert.Len(t, dinner.Participants, 3)
		assert.Nil(t, dinner.Shares, "equal split should have no shares")

		taxi := expenses[1]
		assert.Equal(t, int64(2500), taxi.Amount)
		assert.Equal(t, "Bob", taxi.PaidBy)
		assert.Equal(t, map[string]int64{"Charlie": 2000, "Alice": 500}, taxi.Shares)
		require.Len(t, taxi.Participants, 2)
		assert.Equal(t, "Charlie", taxi.Participants[0])
	})

	t.Run("existing members are not duplicated", func(t *testing.T) {
		retrieved, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, retrieved.Members)
	})

	t.Run("settlement round trip", func(t *testing.T) {
		settlement := &models.Settlement{
			GroupID:   group.ID,
			From:      "Bob",
			To:        "Alice",
			Amount:    1500,
			CreatedBy: "user-1",
			Note:      "cash",
		}
		require.NoError(t, store.CreateSettlement(ctx, settlement))

		got, err := store.GetSettlement(ctx, settlement.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", got.From)
		assert.Equal(t, "Alice", got.To)
		assert.Equal(t, int64(1500), got.Amount)
		assert.Equal(t, "cash", got.Note)

		list, err := store.ListSettlementsByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, store.DeleteSettlement(ctx, settlement.ID))
		_, err = store.GetSettlement(ctx, settlement.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound, "after delete")
		assert.ErrorIs(t, store.DeleteSettlement(ctx, settlement.ID), storage.ErrNotFound, "second delete")
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		require.NoError(t, store.DeleteExpense(ctx, exact.ID))
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Len(t, expenses, 1)
	})

	t.Run("DeleteGroup cascades", func(t *testing.T) {
		require.NoError(t, store.DeleteGroup(ctx, group.ID))
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Empty(t, expenses, "expenses are deleted with the group")
		assert.ErrorIs(t, store.DeleteGroup(ctx, group.ID), storage.ErrNotFound)
	})

	t.Run("expense for unknown group is rejected", func(t *testing.T) {
		err := store.CreateExpense(ctx, &models.Expense{
			GroupID: "missing", PaidBy: "Alice", Amount: 1, Participants: []string{"Alice"},
		})
		assert.Error(t, err, "Expected foreign key violation")
	})
}

func TestActivityAddsMembers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Members: []string{"Alice"}}
	require.NoError(t, store.CreateGroup(ctx, group))

	members := func(t *testing.T) []string {
		t.Helper()
		g, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		return g.Members
	}

	t.Run("CreateExpense adds payer and participants", func(t *testing.T) {
		expense := &models.Expense{
			ID:           "rent",
			GroupID:      group.ID,
			PaidBy:       "Dave",
			Amount:       3000,
			Participants: []string{"Alice", "Bob"},
			Shares:       map[string]int64{"Alice": 1000, "Bob": 1000, "Eve": 1000},
		}
		require.NoError(t, store.CreateExpense(ctx, expense))
		assert.Equal(t, []string{"Alice", "Dave", "Bob", "Eve"}, members(t))
	})

	t.Run("CreateSettlement adds both parties", func(t *testing.T) {
		settlement := &models.Settlement{GroupID: group.ID, From: "Frank", To: "Alice", Amount: 100}
		require.NoError(t, store.CreateSettlement(ctx, settlement))
		assert.Equal(t, []string{"Alice", "Dave", "Bob", "Eve", "Frank"}, members(t))
	})

	t.Run("failed CreateExpense leaves members unchanged", func(t *testing.T) {
		before := members(t)
		err := store.CreateExpense(ctx, &models.Expense{
			ID:           "rent",
			GroupID:      group.ID,
			PaidBy:       "Zed",
			Amount:       100,
			Participants: []string{"Yara"},
		})
		require.Error(t, err, "Expected duplicate expense ID to be rejected")
		assert.Equal(t, before, members(t))
	})

	t.Run("failed CreateSettlement leaves members unchanged", func(t *testing.T) {
		before := members(t)
		err := store.CreateSettlement(ctx, &models.Settlement{
			ID: "s1", GroupID: group.ID, From: "Alice", To: "Bob", Amount: 1,
		})
		require.NoError(t, err)

		err = store.CreateSettlement(ctx, &models.Settlement{
			ID: "s1", GroupID: group.ID, From: "Quinn", To: "Alice", Amount: 1,
		})
		require.Error(t, err, "Expected duplicate settlement ID to be rejected")
		assert.Equal(t, before, members(t))
	})
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	require.NoError(t, store.CreateUser(ctx, user))

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "Alice", byEmail.DisplayName)

	byID, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, user.Email, byID.Email)

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, missing, "unknown email")

	assert.Error(t, store.CreateUser(ctx, models.NewUser("alice@example.com", "Other", "hash")),
		"Expected duplicate email to be rejected")
}

func TestPlaceholders(t *testing.T) {
	tests := map[int]string{0: "", 1: "?", 3: "?, ?, ?"}
	for n, want := range tests {
		assert.Equal(t, want, placeholders(n), "placeholders(%d)", n)
	}
}
