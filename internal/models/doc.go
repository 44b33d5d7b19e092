// Package models defines the core domain models for settlewise.
//
// # Models
//
//   - Group: a set of people who share expenses
//   - Expense: something one member paid for on behalf of others
//   - Settlement: a payment between members that clears debt
//   - User: a registered account that can create and manage groups
//
// Participants inside a group are identified by name strings. Users are only
// needed to authenticate and are recorded as CreatedBy on the things they add.
//
// # Design Principles
//
// 1. **Integer money**: every amount is stored in cents (int64)
// 2. **Avoid circular references**: use ID strings instead of pointers for relationships
// 3. **Derived data is not stored**: balances and suggested payments are
// recomputed from expenses and settlements on every request
package models
