package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mashaer-transit/kiosk/internal/config"
	"github.com/mashaer-transit/kiosk/internal/db"
	"github.com/mashaer-transit/kiosk/internal/kiosk/codec"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the dev passenger registry and print their card payloads",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cfg.Env != "dev" {
		return fmt.Errorf("seed is dev-only (KIOSK_ENV=%s)", cfg.Env)
	}

	ctx := cmd.Context()
	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()

	if err := db.SeedDev(ctx, conn, nil); err != nil {
		return err
	}

	// Print the encrypted payload each seeded card would carry, so bench
	// cards can be written (or sim reads scripted) without extra tooling.
	cardCodec, err := codec.New([]byte(cfg.CardKey))
	if err != nil {
		return fmt.Errorf("card codec: %w", err)
	}
	for _, p := range db.DefaultDevPassengers {
		payload, err := cardCodec.Encode(p.PassengerID)
		if err != nil {
			return fmt.Errorf("encode %s: %w", p.PassengerID, err)
		}
		cmd.Printf("%s\t%s\tslot=%d\tpayload=%s\n", p.PassengerID, p.Name, p.FingerSlot, payload)
	}

	return nil
}
