// Package treasury tracks the funds accrued from paid mints and hands
// them off to a settlement rail on withdrawal.
package treasury

import (
	"context"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	id "mintgate/pkg/domain"
	domainerrors "mintgate/pkg/domain-errors"
)

// Ledger is the treasury balance.
//
// Invariants:
//   - balance, totalReceived and totalWithdrawn never go negative.
//   - balance == totalReceived - totalWithdrawn at all times.
//   - a failed withdrawal leaves the balance untouched.
type Ledger struct {
	mu             sync.Mutex
	balance        uint256.Int
	totalReceived  uint256.Int
	totalWithdrawn uint256.Int
}

// NewLedger constructs an empty treasury ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Credit adds a received payment to the balance. The full amount is
// kept as paid, including anything beyond the quoted price.
func (l *Ledger) Credit(amount *uint256.Int) error {
	if amount == nil {
		return fmt.Errorf("credit amount is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var next uint256.Int
	if _, overflow := next.AddOverflow(&l.balance, amount); overflow {
		return domainerrors.New(domainerrors.CodeInternal, "treasury balance overflow")
	}
	l.balance.Set(&next)
	l.totalReceived.Add(&l.totalReceived, amount)
	return nil
}

// Debit reverses a prior Credit of the same amount. The issuance path
// uses it to hand a payment back when registration fails after the
// credit landed.
func (l *Ledger) Debit(amount *uint256.Int) error {
	if amount == nil {
		return fmt.Errorf("debit amount is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance.Lt(amount) {
		return domainerrors.New(domainerrors.CodeInternal, "debit exceeds treasury balance")
	}
	l.balance.Sub(&l.balance, amount)
	l.totalReceived.Sub(&l.totalReceived, amount)
	return nil
}

// Balance returns a copy of the current balance.
func (l *Ledger) Balance() *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(uint256.Int).Set(&l.balance)
}

// TotalReceived returns a copy of the lifetime sum of credited payments.
func (l *Ledger) TotalReceived() *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(uint256.Int).Set(&l.totalReceived)
}

// TotalWithdrawn returns a copy of the lifetime sum of withdrawn funds.
func (l *Ledger) TotalWithdrawn() *uint256.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(uint256.Int).Set(&l.totalWithdrawn)
}

// WithdrawAll transfers the entire balance to the recipient through the
// given transferer. The balance is zeroed only after the transfer
// succeeds; a transfer failure surfaces as a transfer-failed error and
// every unit stays in the ledger for a later retry.
func (l *Ledger) WithdrawAll(ctx context.Context, to id.Address, transfer Transferer) (*uint256.Int, error) {
	if transfer == nil {
		return nil, fmt.Errorf("transferer is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	amount := new(uint256.Int).Set(&l.balance)
	if err := transfer.Transfer(ctx, to, amount); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeTransferFailed, "withdraw treasury balance")
	}

	l.balance.Clear()
	l.totalWithdrawn.Add(&l.totalWithdrawn, amount)
	return amount, nil
}
