package commands

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/berand/trinity/internal/chainsync"
	"github.com/berand/trinity/internal/chainsync/syncer"
	nm "github.com/berand/trinity/node"
)

// AddNodeFlags exposes the node configuration options on the command line.
// These are exposed for convenience of commands embedding a Trinity node.
func AddNodeFlags(cmd *cobra.Command) error {
	registry, err := chainsync.DefaultRegistry(chainsync.DefaultStrategies(syncer.NopMetrics()))
	if err != nil {
		return err
	}

	cmd.Flags().String("moniker", config.Moniker, "node name")
	cmd.Flags().String("chain-id", config.ChainID, "the ID of the chain to join")
	cmd.Flags().String("sync.mode", registry.DefaultMode(),
		fmt.Sprintf("blockchain sync mode (one of: %s)", strings.Join(registry.Modes(), " | ")))

	cmd.Flags().Bool("instrumentation.prometheus", config.Instrumentation.Prometheus,
		"enable Prometheus metrics")
	cmd.Flags().String("instrumentation.prometheus-listen-addr", config.Instrumentation.PrometheusListenAddr,
		"Prometheus listen address")
	return nil
}

// NewRunNodeCmd returns the command that starts the Trinity node.
func NewRunNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"node", "run"},
		Short:   "Run the Trinity node",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := chainsync.DefaultRegistry(chainsync.DefaultStrategies(syncer.NopMetrics()))
			if err != nil {
				return err
			}

			// unknown modes are rejected here, before they reach the
			// orchestrator
			active, err := registry.Resolve(config.Sync.Mode)
			if err != nil {
				return err
			}
			if active == nil {
				return fmt.Errorf("unknown sync mode %q (valid: %s)",
					config.Sync.Mode, strings.Join(registry.Modes(), " | "))
			}

			n, err := nm.New(config, logger)
			if err != nil {
				return fmt.Errorf("failed to create node: %w", err)
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer cancel()

			if err := n.Start(ctx); err != nil {
				return fmt.Errorf("failed to start node: %w", err)
			}
			logger.Info("started node", "moniker", config.Moniker, "sync_mode", config.Sync.Mode)

			// run until the node stops itself or a signal arrives
			n.Wait()
			return nil
		},
	}

	if err := AddNodeFlags(cmd); err != nil {
		panic(err)
	}
	return cmd
}
