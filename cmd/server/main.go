// Command server runs the blockwright server: listen on a TCP address,
// drive each connection through handshake/status/login/play.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/StoreStation/blockwright/pkg/frame"
	"github.com/StoreStation/blockwright/pkg/server"
)

func main() {
	cfg := server.DefaultConfig()
	var noCompression bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the blockwright server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if noCompression {
				cfg.CompressionThreshold = frame.NoCompression
			}

			log, err := zap.NewProduction()
			if err != nil {
				return err
			}
			defer log.Sync()

			log.Info("starting blockwright server",
				zap.String("addr", cfg.Addr),
				zap.Int("protocol_version", server.ProtocolVersion),
				zap.Int("max_players", cfg.MaxPlayers),
			)
			return server.New(cfg, log).ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen on")
	cmd.Flags().StringVar(&cfg.MOTD, "motd", cfg.MOTD, "server list message of the day")
	cmd.Flags().IntVar(&cfg.MaxPlayers, "max-players", cfg.MaxPlayers, "reported max player count")
	cmd.Flags().Int32Var(&cfg.CompressionThreshold, "compression-threshold", cfg.CompressionThreshold, "minimum packet size to compress")
	cmd.Flags().IntVar(&cfg.ViewDistance, "view-distance", cfg.ViewDistance, "chunk view distance reported to clients")
	cmd.Flags().BoolVar(&noCompression, "no-compression", false, "disable packet compression regardless of threshold")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
