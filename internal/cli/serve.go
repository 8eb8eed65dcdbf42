package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/broadcast"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/config"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/logging"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/monitor"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/policy"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/scan"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/server"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/workflow"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server, transaction monitor, and alert broadcaster",
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, _ := os.Getwd()
			cfg, cfgPath, err := config.Load(wd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			logging.Init(cfg.Debug)
			log := logging.L()
			if cfgPath != "" {
				log.Infow("loaded config", "path", cfgPath)
			}

			policies, ruleset := policy.Defaults()
			if cfg.PolicyFile != "" {
				policies, ruleset, err = policy.Load(cfg.PolicyFile)
				if err != nil {
					return err
				}
			}
			engine := policy.NewEngine(policies, ruleset)
			compliance := policy.NewCompliance(engine)

			scanner := scan.New()
			orch := workflow.NewOrchestrator(workflow.NewLocalRunner(scanner), logging.Named("workflow"))
			hub := broadcast.NewHub(logging.Named("hub"),
				broadcast.WithPing(cfg.PingInterval(), cfg.LivenessWindow()))
			client := monitor.NewSimulatedClient(cfg.Network, 1)
			mon := monitor.New(client, compliance, hub, cfg.PollInterval(), cfg.MaxTransactionsPoll, logging.Named("monitor"))
			srv := server.New(cfg, scanner, orch, engine, compliance, hub, mon, logging.Named("http"))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { hub.Run(ctx); return nil })
			g.Go(func() error { mon.Run(ctx); return nil })
			g.Go(func() error { return srv.Run(ctx) })
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
