package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "savrctl",
		Short: "Storefront client for the SAVR grocery marketplace",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			viper.SetEnvPrefix("SAVR")
			viper.AutomaticEnv()
			viper.SetConfigName("savrctl")
			viper.SetConfigType("yaml")
			viper.AddConfigPath("$HOME/.config/savr")
			viper.AddConfigPath(".")
			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					return err
				}
			}
			return nil
		},
	}

	root.PersistentFlags().String("server", "http://localhost:8000", "SAVR server base URL")
	root.PersistentFlags().String("store", defaultStorePath(), "path to the local data file")
	viper.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	viper.BindPFlag("store", root.PersistentFlags().Lookup("store"))

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		productsCmd(),
		cartCmd(),
		optimizeCmd(),
		checkoutCmd(),
		addressesCmd(),
		ordersCmd(),
	)
	return root
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "savr.db"
	}
	return home + "/.config/savr/savr.db"
}
