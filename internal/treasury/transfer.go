package treasury

import (
	"context"
	"sync"
	"time"

	"github.com/holiman/uint256"

	id "mintgate/pkg/domain"
)

// Transferer moves withdrawn funds to a recipient. Implementations
// wrap whatever settlement rail a deployment uses; a returned error
// means no funds left the treasury.
type Transferer interface {
	Transfer(ctx context.Context, to id.Address, amount *uint256.Int) error
}

// Payout records one completed transfer.
type Payout struct {
	To     id.Address
	Amount *uint256.Int
	At     time.Time
}

// RecordingTransferer journals payouts in memory. It backs tests and
// deployments where settlement is reconciled out of band.
type RecordingTransferer struct {
	mu      sync.Mutex
	payouts []Payout
	now     func() time.Time
}

// NewRecordingTransferer constructs an empty payout journal.
func NewRecordingTransferer() *RecordingTransferer {
	return &RecordingTransferer{now: time.Now}
}

func (t *RecordingTransferer) Transfer(_ context.Context, to id.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.payouts = append(t.payouts, Payout{
		To:     to,
		Amount: new(uint256.Int).Set(amount),
		At:     t.now(),
	})
	return nil
}

// Payouts returns a copy of the journal in transfer order.
func (t *RecordingTransferer) Payouts() []Payout {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Payout, len(t.payouts))
	copy(out, t.payouts)
	return out
}
