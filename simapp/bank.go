package simapp

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// LedgerBankKeeper is a minimal in-memory bank for the demo CLI: it tracks
// per-module balances and rejects module payouts that exceed what was paid
// in. User accounts are assumed funded.
type LedgerBankKeeper struct {
	moduleBalances map[string]sdk.Coins
}

// NewLedgerBankKeeper returns an empty ledger.
func NewLedgerBankKeeper() *LedgerBankKeeper {
	return &LedgerBankKeeper{moduleBalances: make(map[string]sdk.Coins)}
}

// ModuleBalance returns the coins held by a module account.
func (b *LedgerBankKeeper) ModuleBalance(module string) sdk.Coins {
	return b.moduleBalances[module]
}

func (b *LedgerBankKeeper) SendCoinsFromAccountToModule(_ context.Context, _ sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	b.moduleBalances[recipientModule] = b.moduleBalances[recipientModule].Add(amt...)
	return nil
}

func (b *LedgerBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, senderModule string, _ sdk.AccAddress, amt sdk.Coins) error {
	balance := b.moduleBalances[senderModule]
	if !amt.IsAllLTE(balance) {
		return fmt.Errorf("module %s holds %s, cannot send %s", senderModule, balance, amt)
	}
	b.moduleBalances[senderModule] = balance.Sub(amt...)
	return nil
}
