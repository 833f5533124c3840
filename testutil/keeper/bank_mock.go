package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankTransfer records one call against the mock bank keeper.
type BankTransfer struct {
	FromModule string
	ToModule   string
	Account    sdk.AccAddress
	Amount     sdk.Coins
}

// MockBankKeeper satisfies the vault's BankKeeper interface and records every
// transfer. Set FailNext to make the next call return an error, leaving no
// record.
type MockBankKeeper struct {
	Transfers []BankTransfer
	FailNext  bool
}

// NewMockBankKeeper returns an empty recording bank keeper.
func NewMockBankKeeper() *MockBankKeeper {
	return &MockBankKeeper{}
}

func (m *MockBankKeeper) SendCoinsFromAccountToModule(_ context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	if m.FailNext {
		m.FailNext = false
		return fmt.Errorf("bank transfer refused")
	}
	m.Transfers = append(m.Transfers, BankTransfer{
		ToModule: recipientModule,
		Account:  senderAddr,
		Amount:   amt,
	})
	return nil
}

func (m *MockBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	if m.FailNext {
		m.FailNext = false
		return fmt.Errorf("bank transfer refused")
	}
	m.Transfers = append(m.Transfers, BankTransfer{
		FromModule: senderModule,
		Account:    recipientAddr,
		Amount:     amt,
	})
	return nil
}
