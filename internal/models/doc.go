// Package models defines the core domain model for MoneyKeeper.
//
// # Aggregates
//
//   - Wallet: balance-bearing container; the balance only moves through
//     UpdateBalance and never goes negative
//   - Transaction: signed monetary event against one wallet; SignedAmount
//     derives the balance-affecting value from the type
//   - BillSplit: multi-participant expense with per-participant payment
//     tracking and settlement
//   - Loan: peer loan with flat-month simple interest and clamped partial
//     payments
//   - Account: ownership boundary grouping the other four
//
// # Design Principles
//
//  1. **Immutable updates**: mutating methods take a value receiver and
//     return a fresh copy, so a failed operation never leaves a
//     half-modified aggregate behind
//  2. **Explicit time**: anything that depends on "now" (interest accrual,
//     overdue checks, payment stamping) takes a time.Time argument, keeping
//     the package deterministic under test
//  3. **Precise money**: all monetary values are decimal.Decimal, never
//     floats
//  4. **Avoid circular references**: aggregates reference each other by ID
//     strings only (a Transaction holds a WalletID, never a *Wallet)
//
// All operations return domain errors classified by ErrorKind; see errors.go.
package models
