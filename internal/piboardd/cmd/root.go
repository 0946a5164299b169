// Package cmd implements the piboardd CLI
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "piboardd",
	Short: "PiBoard display client daemon",
	Long: `piboardd runs a kiosk display: it registers the device with the
directory service, shows a pairing code until an account claims it, and then
keeps the on-screen playlist continuously in sync with the account's content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cfgFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		// Optional; a missing .env is the normal case.
		_ = godotenv.Load()
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults plus PIBOARD_* env)")

	rootCmd.AddCommand(newVersionCmd())
}
