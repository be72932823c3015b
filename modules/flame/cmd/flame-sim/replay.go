package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanet-platform/flame/common/go/logging"
	"github.com/yanet-platform/flame/common/go/xcmd"
	"github.com/yanet-platform/flame/modules/flame"
	"github.com/yanet-platform/flame/modules/flame/internal/rtable"
	"github.com/yanet-platform/flame/modules/flame/internal/scenario"
)

// ReplayCmd is the command line arguments of the replay command.
type ReplayCmd struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string
	// Match is a glob filtering the final route dump by destination.
	Match string
	// Hold keeps the module running after the replay until interrupted.
	Hold bool
}

func newReplayCmd() *cobra.Command {
	cmd := ReplayCmd{}

	replayCmd := &cobra.Command{
		Use:   "replay SCENARIO",
		Short: "Replay a timed routing scenario against a fresh routing table",
		Args:  cobra.ExactArgs(1),
		RunE: func(rawCmd *cobra.Command, args []string) error {
			return runReplay(rawCmd.Context(), cmd, args[0], rawCmd.OutOrStdout())
		},
	}
	replayCmd.Flags().StringVarP(&cmd.ConfigPath, "config", "c", "", "Path to the configuration file")
	replayCmd.Flags().StringVarP(&cmd.Match, "match", "m", "*", "Glob filtering dumped routes by destination")
	replayCmd.Flags().BoolVar(&cmd.Hold, "hold", false, "Keep running after the replay until interrupted")

	return replayCmd
}

func runReplay(ctx context.Context, cmd ReplayCmd, scenarioPath string, out io.Writer) error {
	matcher, err := glob.Compile(cmd.Match)
	if err != nil {
		return fmt.Errorf("failed to compile match pattern %q: %w", cmd.Match, err)
	}

	cfg := flame.DefaultConfig()
	if cmd.ConfigPath != "" {
		cfg, err = flame.LoadConfig(cmd.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	if sc.Lifetime > 0 {
		cfg.RTable.Lifetime = sc.Lifetime
	}

	log, _, err := logging.Init(&cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	clock := scenario.NewManualClock(scenario.Epoch)
	m, err := flame.NewModule(cfg, log, flame.WithClock(clock))
	if err != nil {
		return fmt.Errorf("failed to initialize module: %w", err)
	}
	defer m.Close()

	runner := scenario.NewRunner(m.Table(), clock, scenario.WithLog(log))
	outcomes, replayErr := runner.Replay(ctx, sc)

	for _, outcome := range outcomes {
		fmt.Fprintln(out, outcome.String())
	}
	fmt.Fprintf(out, "\nroutes at %s:\n", clock.Elapsed())
	if err := printRoutes(out, m.Table().Dump(), matcher); err != nil {
		return fmt.Errorf("failed to print routes: %w", err)
	}

	if replayErr != nil {
		return fmt.Errorf("failed to replay scenario: %w", replayErr)
	}

	if cmd.Hold {
		return hold(ctx, m, log)
	}

	return nil
}

func hold(ctx context.Context, m *flame.Module, log *zap.SugaredLogger) error {
	wg, ctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		return m.Run(ctx)
	})
	wg.Go(func() error {
		err := xcmd.WaitInterrupted(ctx)
		log.Infof("caught signal: %v", err)
		return err
	})

	return wg.Wait()
}

func printRoutes(out io.Writer, routes []rtable.Route, matcher glob.Glob) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DESTINATION\tRETRANSMITTER\tINTERFACE\tCOST\tSEQNUM\tEXPIRES")

	for _, route := range routes {
		if !matcher.Match(route.Destination.String()) {
			continue
		}

		iface := fmt.Sprintf("%d", route.Interface)
		if route.Interface == rtable.InterfaceAny {
			iface = "any"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			route.Destination,
			route.Retransmitter,
			iface,
			route.Cost,
			route.Seqnum,
			route.ExpiresAt.Sub(scenario.Epoch),
		)
	}

	return w.Flush()
}
