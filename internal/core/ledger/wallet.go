package ledger

import "github.com/shopspring/decimal"

// Wallet is the single session balance. Stakes are debited at placement
// time; payouts are credited at resolution. Not safe for concurrent use —
// mutation happens on the session goroutine.
type Wallet struct {
	balance decimal.Decimal
}

func NewWallet(initial decimal.Decimal) *Wallet {
	return &Wallet{balance: initial}
}

func (w *Wallet) Balance() decimal.Decimal { return w.balance }

// Debit removes a stake. Returns ErrInvalidAmount for non-positive
// amounts and ErrInsufficientFunds when the stake exceeds the balance;
// the balance is untouched on error.
func (w *Wallet) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if amount.GreaterThan(w.balance) {
		return ErrInsufficientFunds
	}
	w.balance = w.balance.Sub(amount)
	return nil
}

// Credit adds a payout. Zero-payout credits are no-ops.
func (w *Wallet) Credit(amount decimal.Decimal) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return
	}
	w.balance = w.balance.Add(amount)
}
