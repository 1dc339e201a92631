package main

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kioskd",
	Short: "Boarding kiosk daemon",
	Long: `kioskd runs the vehicle boarding kiosk: card and fingerprint
admission, PIN-gated trip start, headcount reconciliation, and trip
recording. Sensor drivers attach behind the adapter contracts in
internal/kiosk/sensors.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to TOML config (default $KIOSK_CONFIG)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
