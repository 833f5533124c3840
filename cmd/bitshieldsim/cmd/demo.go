package cmd

import (
	"fmt"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bitshield-labs/bitshield/simapp"
	policytypes "github.com/bitshield-labs/bitshield/x/policy/types"
	"github.com/bitshield-labs/bitshield/x/shared/roles"
)

// NewDemoCmd runs one full protection flow: fund the pool, open a PUT, feed
// the oracle a lower spot price through multi-provider aggregation, exercise
// the policy, and print the resulting payout and events.
func NewDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an end-to-end deposit/protect/settle flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd)
		},
	}

	cmd.Flags().String("denom", "usats", "collateral denom")
	cmd.Flags().String("strike", "45000", "PUT strike price")
	cmd.Flags().String("spot", "40000", "aggregated spot price at exercise")
	cmd.Flags().Int64("deposit", 10000, "pool deposit in base units")
	cmd.Flags().Int64("amount", 2500, "protected amount in base units")

	for _, flag := range []string{"denom", "strike", "spot", "deposit", "amount"} {
		if err := viper.BindPFlag(flag, cmd.Flags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	return cmd
}

func runDemo(cmd *cobra.Command) error {
	denom := viper.GetString("denom")
	strike, err := sdkmath.LegacyNewDecFromStr(viper.GetString("strike"))
	if err != nil {
		return fmt.Errorf("invalid strike: %w", err)
	}
	spot, err := sdkmath.LegacyNewDecFromStr(viper.GetString("spot"))
	if err != nil {
		return fmt.Errorf("invalid spot: %w", err)
	}
	deposit := sdkmath.NewInt(viper.GetInt64("deposit"))
	amount := sdkmath.NewInt(viper.GetInt64("amount"))

	core, err := simapp.NewCore(log.NewNopLogger())
	if err != nil {
		return err
	}
	ctx := core.NewContext()
	out := cmd.OutOrStdout()

	params := core.Policy.GetParams(ctx)
	params.CollateralDenom = denom
	if err := core.Policy.SetParams(ctx, params); err != nil {
		return err
	}

	owner := sdk.AccAddress([]byte("demo-owner-_________"))
	backend := sdk.AccAddress([]byte("demo-backend-_______"))
	if err := core.Oracle.GrantRole(ctx, core.Authority, roles.Grant{
		Role:      roles.RoleBackend,
		Principal: backend.String(),
	}); err != nil {
		return err
	}
	if err := core.Vault.GrantRole(ctx, core.Authority, roles.Grant{
		Role:      roles.RoleBackend,
		Principal: backend.String(),
	}); err != nil {
		return err
	}
	if err := core.Policy.GrantRole(ctx, core.Authority, roles.Grant{
		Role:      roles.RoleBackend,
		Principal: backend.String(),
	}); err != nil {
		return err
	}

	fmt.Fprintf(out, "depositing %s%s into the pool\n", deposit, denom)
	if err := core.Vault.Deposit(ctx, owner, denom, deposit); err != nil {
		return err
	}

	fmt.Fprintf(out, "creating PUT: strike %s, protected amount %s\n", strike, amount)
	policyID, err := core.Policy.CreatePolicy(ctx, owner.String(), policytypes.PolicyTypePut, strike, amount, ctx.BlockHeight()+100)
	if err != nil {
		return err
	}
	account := core.Vault.GetAccount(ctx, denom)
	fmt.Fprintf(out, "policy %d open; pool available %s%s (locked %s)\n",
		policyID, account.AvailableBalance(), denom, account.LockedBalance)

	asset := core.Policy.GetParams(ctx).PriceAsset
	now := ctx.BlockTime().Unix()
	for i, spread := range []int64{-5, 0, 5} {
		provider := sdk.AccAddress([]byte(fmt.Sprintf("demo-provider-%d_____", i))).String()
		if err := core.Oracle.RegisterProvider(ctx, core.Authority, provider, sdkmath.NewInt(1)); err != nil {
			return err
		}
		price := spot.Add(sdkmath.LegacyNewDec(spread))
		if err := core.Oracle.SubmitPrice(ctx, provider, asset, price, now); err != nil {
			return err
		}
		fmt.Fprintf(out, "provider %d submitted %s\n", i+1, price)
	}

	aggregated, err := core.Oracle.AggregateAssetPrice(ctx, backend.String(), asset)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "aggregated %s price: %s from %d providers\n", asset, aggregated.Price, aggregated.NumProviders)

	settlement, err := core.Policy.ActivatePolicy(ctx, owner.String(), policyID)
	if err != nil {
		return err
	}
	policy, _ := core.Policy.GetPolicy(ctx, policyID)
	account = core.Vault.GetAccount(ctx, denom)
	fmt.Fprintf(out, "policy %d %s; settlement paid %s%s; pool now total %s locked %s\n",
		policyID, policy.Status, settlement, denom, account.TotalBalance, account.LockedBalance)

	fmt.Fprintln(out, "\nevents:")
	for _, event := range ctx.EventManager().Events() {
		fmt.Fprintf(out, "  %s\n", event.Type)
		for _, attr := range event.Attributes {
			fmt.Fprintf(out, "    %s=%s\n", attr.Key, attr.Value)
		}
	}
	return nil
}
