package ledger

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
)

// maxAllowance is treated as unlimited: TransferFrom does not decrease it.
var maxAllowance = new(uint256.Int).SetAllOne()

// Approve sets spender's allowance over owner's balance to amount.
func (l *Ledger) Approve(owner, spender account.Address, amount *uint256.Int) error {
	return l.mutate("approve", func(int64) ([]Event, error) {
		if owner.IsZero() {
			return nil, fmt.Errorf("%w: owner", ErrZeroAddress)
		}
		if spender.IsZero() {
			return nil, fmt.Errorf("%w: spender", ErrZeroAddress)
		}
		if owner == l.custody {
			return nil, fmt.Errorf("%w: custody cannot approve", ErrReservedAccount)
		}
		ev := ApprovalEvent{Owner: owner, Spender: spender}
		if amount != nil {
			ev.Amount.Set(amount)
		}
		l.setAllowance(owner, spender, &ev.Amount)
		return []Event{ev}, nil
	})
}

// Allowance returns how much spender may still move from owner.
func (l *Ledger) Allowance(owner, spender account.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.allowance(owner, spender)
}

func (l *Ledger) allowance(owner, spender account.Address) *uint256.Int {
	if a, ok := l.allowances[owner][spender]; ok {
		return new(uint256.Int).Set(a)
	}
	return new(uint256.Int)
}

func (l *Ledger) setAllowance(owner, spender account.Address, amount *uint256.Int) {
	if amount.IsZero() {
		if m, ok := l.allowances[owner]; ok {
			delete(m, spender)
			if len(m) == 0 {
				delete(l.allowances, owner)
			}
		}
		return
	}
	m, ok := l.allowances[owner]
	if !ok {
		m = make(map[account.Address]*uint256.Int)
		l.allowances[owner] = m
	}
	m[spender] = new(uint256.Int).Set(amount)
}

// spend consumes amount of an allowance already checked to cover it.
func (l *Ledger) spend(owner, spender account.Address, amount *uint256.Int) {
	cur := l.allowance(owner, spender)
	if cur.Eq(maxAllowance) {
		return
	}
	l.setAllowance(owner, spender, cur.Sub(cur, amount))
}
