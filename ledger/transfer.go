package ledger

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/policy"
)

// Transfer moves amount from from to to, applying policy and fees.
func (l *Ledger) Transfer(from, to account.Address, amount *uint256.Int) error {
	return l.mutate("transfer", func(now int64) ([]Event, error) {
		return l.transfer(now, nil, from, to, amount)
	})
}

// TransferFrom moves amount on behalf of from, consuming spender's allowance.
func (l *Ledger) TransferFrom(spender, from, to account.Address, amount *uint256.Int) error {
	return l.mutate("transfer_from", func(now int64) ([]Event, error) {
		if spender.IsZero() {
			return nil, fmt.Errorf("%w: spender", ErrZeroAddress)
		}
		return l.transfer(now, &spender, from, to, amount)
	})
}

// transfer is the orchestrator. Every check runs before the first write.
func (l *Ledger) transfer(now int64, spender *account.Address, from, to account.Address, amount *uint256.Int) ([]Event, error) {
	if from.IsZero() {
		return nil, fmt.Errorf("%w: sender", ErrZeroAddress)
	}
	if to.IsZero() {
		return nil, fmt.Errorf("%w: recipient", ErrZeroAddress)
	}
	if from == l.custody {
		return nil, fmt.Errorf("%w: custody pays out through claims only", ErrReservedAccount)
	}
	if to == l.custody {
		return nil, fmt.Errorf("%w: custody only receives reflection fees", ErrReservedAccount)
	}
	if from == account.BurnSink {
		return nil, fmt.Errorf("%w: burned supply cannot move", ErrReservedAccount)
	}
	if amount == nil {
		amount = new(uint256.Int)
	}
	if amount.IsZero() && !l.allowZero {
		return nil, ErrZeroAmount
	}

	if spender != nil {
		if allowed := l.allowance(from, *spender); allowed.Lt(amount) {
			return nil, fmt.Errorf("%w: %s approved %s for %s, need %s",
				ErrInsufficientAllowance, from, *spender, allowed.Dec(), amount.Dec())
		}
	}

	if err := l.policy.Check(policy.Request{
		From:      from,
		To:        to,
		Amount:    amount,
		ToBalance: l.balanceOf(to),
		Now:       now,
	}); err != nil {
		return nil, err
	}

	if bal := l.balanceOf(from); bal.Lt(amount) {
		return nil, fmt.Errorf("%w: %s holds %s, need %s", ErrInsufficientBalance, from, bal.Dec(), amount.Dec())
	}

	if amount.IsZero() {
		return []Event{TransferEvent{From: from, To: to}}, nil
	}

	touched := l.touched(from, to)
	for _, addr := range touched {
		l.refl.Settle(addr)
	}

	split := l.fees.Compute(amount, l.policy.Flags(from).FeeExempt, l.policy.Flags(to).FeeExempt)

	if spender != nil {
		l.spend(from, *spender, amount)
	}
	src := l.balance(from)
	src.Sub(src, amount)
	dst := l.balance(to)
	dst.Add(dst, &split.Net)
	if !split.IsZero() {
		burn := l.balance(account.BurnSink)
		burn.Add(burn, &split.Burn)
		tr := l.balance(l.treasury)
		tr.Add(tr, &split.Treasury)
		cu := l.balance(l.custody)
		cu.Add(cu, &split.Reflect)
		l.refl.Distribute(&split.Reflect)
	}

	for _, addr := range touched {
		l.updateHolder(addr)
	}
	l.refl.Flush()
	l.policy.Touch(from, to, now)

	ev := TransferEvent{From: from, To: to, Net: split.Net}
	ev.Amount.Set(amount)
	events := []Event{ev}
	if !split.IsZero() {
		events = append(events, FeesDistributedEvent{
			From:     from,
			Burn:     split.Burn,
			Treasury: split.Treasury,
			Reflect:  split.Reflect,
		})
	}

	l.log.Debug().
		Stringer("from", from).
		Stringer("to", to).
		Str("amount", amount.Dec()).
		Str("net", split.Net.Dec()).
		Str("fee", split.Total().Dec()).
		Msg("transfer")
	return events, nil
}

// touched lists the distinct accounts a transfer can change.
func (l *Ledger) touched(from, to account.Address) []account.Address {
	out := make([]account.Address, 0, 5)
	seen := make(map[account.Address]bool, 5)
	for _, a := range []account.Address{from, to, account.BurnSink, l.treasury, l.custody} {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}
