package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fogsim/config"
	"fogsim/geo"
	"fogsim/httpapi"
	"fogsim/metrics"
	"fogsim/oracle"
	"fogsim/qos"
	"fogsim/sim"
)

func newRunCommand() *cobra.Command {
	var (
		addr       string
		fixture    string
		bridgeURL  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation until the mobility oracle is exhausted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), addr, fixture, bridgeURL)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP introspection address")
	cmd.Flags().StringVar(&fixture, "fixture", "", "path to a JSON MemoryOracle fixture (scripted frames)")
	cmd.Flags().StringVar(&bridgeURL, "bridge-url", "", "websocket URL of a live mobility bridge")
	return cmd
}

func runSimulation(ctx context.Context, addr, fixture, bridgeURL string) error {
	runID := uuid.New().String()
	log := zap.NewExample().With(zap.String("run_id", runID))
	defer log.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	orc, err := buildOracle(ctx, fixture, bridgeURL, log)
	if err != nil {
		return err
	}

	s, err := sim.New(cfg, orc, oracle.NoopVisualSink{}, log)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)
	srv := httpapi.NewServer(addr, s, log)

	driveErr := make(chan error, 1)
	go func() {
		for orc.ExpectedRemaining() > 0 {
			if err := s.Step(ctx); err != nil {
				driveErr <- err
				return
			}
			collector.Observe(s.LastQoS, s.LastTerms, qos.EvalParameters(s.Ledger, s.LastTerms))
			select {
			case <-ctx.Done():
				driveErr <- nil
				return
			default:
			}
		}
		log.Info("simulation finished, all vehicles processed", zap.Int("ticks", s.Tick))
		driveErr <- nil
	}()

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Run(ctx) }()

	select {
	case err := <-driveErr:
		return err
	case err := <-serveErr:
		return err
	}
}

// buildOracle selects a live BridgeOracle, a MemoryOracle fixture, or a
// single-vehicle built-in demo fixture, in that preference order.
func buildOracle(ctx context.Context, fixture, bridgeURL string, log *zap.Logger) (oracle.Oracle, error) {
	if bridgeURL != "" {
		return oracle.DialBridge(ctx, bridgeURL, log)
	}
	if fixture != "" {
		return loadFixture(fixture)
	}
	return demoOracle(), nil
}

type fixtureFile struct {
	Min    geo.Point      `json:"min"`
	Max    geo.Point      `json:"max"`
	Frames []oracle.Frame `json:"frames"`
}

func loadFixture(path string) (*oracle.MemoryOracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return oracle.NewMemoryOracle(f.Min, f.Max, f.Frames), nil
}

func demoOracle() *oracle.MemoryOracle {
	return oracle.NewMemoryOracle(geo.Point{}, geo.Point{X: 1000, Y: 1000}, []oracle.Frame{
		{Added: []string{"v0"}, Positions: map[string]geo.Point{"v0": {X: 100, Y: 100}}},
		{Positions: map[string]geo.Point{"v0": {X: 120, Y: 110}}},
		{Positions: map[string]geo.Point{"v0": {X: 140, Y: 120}}},
		{Removed: []string{"v0"}},
	})
}
