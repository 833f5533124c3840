package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/bitshield-labs/bitshield/testutil/keeper"
	oracletypes "github.com/bitshield-labs/bitshield/x/oracle/types"
	"github.com/bitshield-labs/bitshield/x/policy/types"
	vaulttypes "github.com/bitshield-labs/bitshield/x/vault/types"
)

const (
	testDenom     = "usats"
	testSubmitter = "oracle-backend"
)

var (
	owner     = sdk.AccAddress([]byte("policy-owner-_______"))
	depositor = sdk.AccAddress([]byte("pool-depositor-_____"))
)

// setSpotPrice pushes a price through the oracle's single-submitter path so
// policy tests control the spot directly.
func setSpotPrice(t *testing.T, ks keepertest.PolicyKeepers, ctx sdk.Context, price int64, timestamp int64) {
	t.Helper()
	params := oracletypes.DefaultParams()
	params.AuthorizedSubmitter = testSubmitter
	require.NoError(t, ks.Oracle.SetParams(ctx, params))
	require.NoError(t, ks.Oracle.SetPrice(ctx, testSubmitter, "BTC", sdkmath.LegacyNewDec(price), timestamp))
}

func fundPool(t *testing.T, ks keepertest.PolicyKeepers, ctx sdk.Context, amount int64) {
	t.Helper()
	require.NoError(t, ks.Vault.Deposit(ctx, depositor, testDenom, sdkmath.NewInt(amount)))
}

func TestCreatePolicyLocksCollateral(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)

	id, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+100)
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)

	policy, found := ks.Policy.GetPolicy(ctx, id)
	require.True(t, found)
	require.Equal(t, types.StatusActive, policy.Status)
	require.Equal(t, sdkmath.NewInt(2_500), policy.LockedCollateral)

	account := ks.Vault.GetAccount(ctx, testDenom)
	require.Equal(t, sdkmath.NewInt(2_500), account.LockedBalance)
	require.Equal(t, sdkmath.NewInt(7_500), account.AvailableBalance())
}

func TestCreateCallPolicyFractionalCollateral(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)

	// CALL collateral is CallCollateralFraction (0.50) of the protected
	// amount, rounded up.
	id, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypeCall,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_501), ctx.BlockHeight()+100)
	require.NoError(t, err)

	policy, _ := ks.Policy.GetPolicy(ctx, id)
	require.Equal(t, sdkmath.NewInt(1_251), policy.LockedCollateral)
}

func TestCreatePolicyFailedLockLeavesNoRecord(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 1_000)

	// The vault's own sentinel comes through unchanged.
	_, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+100)
	require.ErrorIs(t, err, vaulttypes.ErrInsufficientBalance)

	require.Empty(t, ks.Policy.GetAllPolicies(ctx))
	account := ks.Vault.GetAccount(ctx, testDenom)
	require.True(t, account.LockedBalance.IsZero())
}

func TestCreatePolicyValidation(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)

	_, err := ks.Policy.CreatePolicy(ctx, "not-bech32", types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(100), ctx.BlockHeight()+100)
	require.ErrorIs(t, err, types.ErrInvalidParameters)

	_, err = ks.Policy.CreatePolicy(ctx, owner.String(), "STRADDLE",
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(100), ctx.BlockHeight()+100)
	require.ErrorIs(t, err, types.ErrInvalidParameters)

	_, err = ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyZeroDec(), sdkmath.NewInt(100), ctx.BlockHeight()+100)
	require.ErrorIs(t, err, types.ErrInvalidParameters)

	_, err = ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(100), ctx.BlockHeight())
	require.ErrorIs(t, err, types.ErrInvalidExpiration)
}

func TestActivatePolicyPaysSettlement(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)
	setSpotPrice(t, ks, ctx, 40_000, 1000)

	id, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+100)
	require.NoError(t, err)

	settlement, err := ks.Policy.ActivatePolicy(ctx, owner.String(), id)
	require.NoError(t, err)
	// (45000-40000)/45000 * 2500 truncated.
	require.Equal(t, sdkmath.NewInt(277), settlement)

	policy, _ := ks.Policy.GetPolicy(ctx, id)
	require.Equal(t, types.StatusExercised, policy.Status)

	// The payout left the pool and the unspent part of the lock came back.
	account := ks.Vault.GetAccount(ctx, testDenom)
	require.Equal(t, sdkmath.NewInt(10_000-277), account.TotalBalance)
	require.True(t, account.LockedBalance.IsZero())
	require.Equal(t, sdkmath.NewInt(10_000-277), account.AvailableBalance())

	// The payout reached the owner through the bank.
	last := ks.Bank.Transfers[len(ks.Bank.Transfers)-1]
	require.Equal(t, owner, last.Account)
	require.Equal(t, sdk.NewCoins(sdk.NewCoin(testDenom, sdkmath.NewInt(277))), last.Amount)
}

func TestActivatePolicyReleasesUnspentLock(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)
	setSpotPrice(t, ks, ctx, 40_000, 1000)

	first, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+100)
	require.NoError(t, err)
	second, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(1_000), ctx.BlockHeight()+100)
	require.NoError(t, err)

	settlement, err := ks.Policy.ActivatePolicy(ctx, owner.String(), first)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(277), settlement)

	// Only the exercised policy's lock is gone; the second policy's stays.
	account := ks.Vault.GetAccount(ctx, testDenom)
	require.Equal(t, sdkmath.NewInt(1_000), account.LockedBalance)
	require.Equal(t, sdkmath.NewInt(10_000-277-1_000), account.AvailableBalance())

	policy, _ := ks.Policy.GetPolicy(ctx, second)
	require.Equal(t, types.StatusActive, policy.Status)
}

func TestActivatePolicyZeroSettlementReleases(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)
	setSpotPrice(t, ks, ctx, 50_000, 1000)

	id, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+100)
	require.NoError(t, err)

	settlement, err := ks.Policy.ActivatePolicy(ctx, owner.String(), id)
	require.NoError(t, err)
	require.True(t, settlement.IsZero())

	policy, _ := ks.Policy.GetPolicy(ctx, id)
	require.Equal(t, types.StatusExercised, policy.Status)

	// The lock came back; nothing left the pool.
	account := ks.Vault.GetAccount(ctx, testDenom)
	require.Equal(t, sdkmath.NewInt(10_000), account.TotalBalance)
	require.True(t, account.LockedBalance.IsZero())
}

func TestActivatePolicyAuthorization(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)
	setSpotPrice(t, ks, ctx, 40_000, 1000)

	id, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+100)
	require.NoError(t, err)

	_, err = ks.Policy.ActivatePolicy(ctx, depositor.String(), id)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = ks.Policy.ActivatePolicy(ctx, owner.String(), 99)
	require.ErrorIs(t, err, types.ErrPolicyNotFound)
}

func TestActivatePolicyOracleErrorsPropagate(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)

	id, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+100)
	require.NoError(t, err)

	// No price in the oracle: the policy stays Active and retains its lock.
	_, err = ks.Policy.ActivatePolicy(ctx, owner.String(), id)
	require.ErrorIs(t, err, oracletypes.ErrNoPriceData)

	policy, _ := ks.Policy.GetPolicy(ctx, id)
	require.Equal(t, types.StatusActive, policy.Status)
	account := ks.Vault.GetAccount(ctx, testDenom)
	require.Equal(t, sdkmath.NewInt(2_500), account.LockedBalance)
}

func TestActivatePolicyPastExpiration(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)
	setSpotPrice(t, ks, ctx, 40_000, 1000)

	id, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+10)
	require.NoError(t, err)

	ctx = ctx.WithBlockHeight(ctx.BlockHeight() + 11)
	_, err = ks.Policy.ActivatePolicy(ctx, owner.String(), id)
	require.ErrorIs(t, err, types.ErrPolicyExpired)
}

func TestExpirePolicy(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)

	id, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+10)
	require.NoError(t, err)

	// Not yet expired.
	err = ks.Policy.ExpirePolicy(ctx, keepertest.Authority, id)
	require.ErrorIs(t, err, types.ErrPolicyNotExpired)

	ctx = ctx.WithBlockHeight(ctx.BlockHeight() + 11)
	require.NoError(t, ks.Policy.ExpirePolicy(ctx, keepertest.Authority, id))

	policy, _ := ks.Policy.GetPolicy(ctx, id)
	require.Equal(t, types.StatusExpired, policy.Status)
	account := ks.Vault.GetAccount(ctx, testDenom)
	require.True(t, account.LockedBalance.IsZero())

	// Expiry is idempotent in effect: the second call fails the status check
	// and cannot release twice.
	err = ks.Policy.ExpirePolicy(ctx, keepertest.Authority, id)
	require.ErrorIs(t, err, types.ErrInvalidStatusTransition)

	// A terminal policy cannot be exercised either.
	setSpotPrice(t, ks, ctx, 40_000, 1000)
	_, err = ks.Policy.ActivatePolicy(ctx, owner.String(), id)
	require.ErrorIs(t, err, types.ErrInvalidStatusTransition)
}

func TestExpirePolicyUnauthorized(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	fundPool(t, ks, ctx, 10_000)

	id, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+10)
	require.NoError(t, err)

	ctx = ctx.WithBlockHeight(ctx.BlockHeight() + 11)
	err = ks.Policy.ExpirePolicy(ctx, owner.String(), id)
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

// TestFullProtectionFlow walks the whole settlement path with consensus
// pricing: fund the pool, open a PUT, aggregate a lower spot from three
// providers, exercise, and check every balance.
func TestFullProtectionFlow(t *testing.T) {
	ks, ctx := keepertest.PolicyKeeper(t)
	ctx = ctx.WithBlockHeight(100)

	fundPool(t, ks, ctx, 10_000)

	id, err := ks.Policy.CreatePolicy(ctx, owner.String(), types.PolicyTypePut,
		sdkmath.LegacyNewDec(45_000), sdkmath.NewInt(2_500), ctx.BlockHeight()+100)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(7_500), ks.Vault.GetAccount(ctx, testDenom).AvailableBalance())

	for i, price := range []int64{39_990, 40_000, 40_010} {
		provider := sdk.AccAddress([]byte{byte(i + 1), 2, 3, 4, 5, 6, 7, 8, 9, 10,
			11, 12, 13, 14, 15, 16, 17, 18, 19, 20}).String()
		require.NoError(t, ks.Oracle.RegisterProvider(ctx, keepertest.Authority, provider, sdkmath.NewInt(1)))
		require.NoError(t, ks.Oracle.SubmitPrice(ctx, provider, "BTC", sdkmath.LegacyNewDec(price), 1000))
	}
	aggregated, err := ks.Oracle.AggregateAssetPrice(ctx, keepertest.Authority, "BTC")
	require.NoError(t, err)
	require.Equal(t, sdkmath.LegacyNewDec(40_000), aggregated.Price)

	settlement, err := ks.Policy.ActivatePolicy(ctx, owner.String(), id)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(277), settlement)

	policy, _ := ks.Policy.GetPolicy(ctx, id)
	require.Equal(t, types.StatusExercised, policy.Status)

	account := ks.Vault.GetAccount(ctx, testDenom)
	require.Equal(t, sdkmath.NewInt(9_723), account.TotalBalance)
	require.True(t, account.LockedBalance.IsZero())
	require.NoError(t, account.Validate())
}
