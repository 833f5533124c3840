// Package cmd holds the bitshieldsim command tree.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd creates the root command for bitshieldsim.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bitshieldsim",
		Short: "BitShield settlement core simulator",
		Long: `bitshieldsim runs the BitShield settlement keepers (oracle, vault,
policy) over an in-memory store so protocol flows can be exercised without a
running chain.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(NewDemoCmd())

	viper.SetEnvPrefix("BITSHIELDSIM")
	viper.AutomaticEnv()

	return rootCmd
}
