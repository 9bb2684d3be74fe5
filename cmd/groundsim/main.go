package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"atc-ground/internal/config"
	"atc-ground/internal/game/airspace"
	"atc-ground/internal/game/groundnet"
	"atc-ground/internal/game/radio"
	"atc-ground/internal/game/simulation"
	"atc-ground/internal/logging"
	"atc-ground/internal/metrics"
	"atc-ground/internal/ui"

	"github.com/labstack/gommon/log"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const BOARD_MESSAGES = 8

type options struct {
	duration    time.Duration
	envFile     string
	airports    string
	load        string
	save        string
	interactive bool
	board       time.Duration
}

func main() {
	var opts options
	flag.DurationVar(&opts.duration, "duration", 30*time.Minute, "simulated time to run")
	flag.StringVar(&opts.envFile, "env", ".env", "environment file with ATC_GROUND_* settings")
	flag.StringVar(&opts.airports, "airports", "DEMO", "comma separated idents of the demo airports to simulate")
	flag.StringVar(&opts.load, "load", "", "ground network snapshot to simulate instead of the demo field")
	flag.StringVar(&opts.save, "save", "", "write the ground network of the first airport to this snapshot file")
	flag.BoolVar(&opts.interactive, "interactive", false, "run in real time and read commands from stdin")
	flag.DurationVar(&opts.board, "board", time.Minute, "simulated interval between traffic boards, 0 for none")
	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	lf := logging.New(cfg.LogLevel, cfg.LogFile)
	defer lf.Close()
	lg := lf.Logger("groundsim")

	reg := metrics.NewRegistry()
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, lg)
		defer srv.Shutdown(context.Background())
	}

	as, err := buildAirspace(opts, lf)
	if err != nil {
		return err
	}
	sim, err := simulation.NewSimulation(as, cfg, lf, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var input *ui.CommandInput
	var ticker *time.Ticker
	if opts.interactive {
		input = ui.NewCommandInput(os.Stdin)
		ticker = time.NewTicker(time.Duration(float64(time.Second) / cfg.TickRate))
		defer ticker.Stop()
	}

	dt := 1.0 / cfg.TickRate
	steps := int(opts.duration.Seconds() * cfg.TickRate)
	lastBoard := 0.0
	for i := 0; i < steps; i++ {
		if input != nil {
			input.Poll(func(cmd string) {
				if err := sim.ExecuteCommand(cmd); err != nil {
					lg.Warnf("%s: %v", cmd, err)
				}
			})
		}
		if err := sim.Update(ctx, dt); err != nil {
			if errors.Is(err, context.Canceled) {
				lg.Infof("interrupted after %.0f simulated seconds", sim.GameTimeSeconds)
				break
			}
			return err
		}
		if opts.board > 0 && sim.GameTimeSeconds-lastBoard >= opts.board.Seconds() {
			lastBoard = sim.GameTimeSeconds
			printBoards(sim, lg)
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
			case <-ticker.C:
			}
		}
	}

	lg.Infoj(log.JSON{
		"event":      "summary",
		"seconds":    sim.GameTimeSeconds,
		"departures": sim.Departures,
		"arrivals":   sim.Arrivals,
		"handoffs":   sim.HandOffs,
		"conflicts":  sim.Conflicts,
	})

	if opts.save != "" {
		return saveSnapshot(opts.save, as.Airports[sim.AirportIDs()[0]].Ground)
	}
	return nil
}

// buildAirspace creates the demo airports, or the single airport of a
// snapshot. Demo airports are laid out 30 km apart.
func buildAirspace(opts options, lf *logging.Factory) (*airspace.Airspace, error) {
	as := airspace.NewAirspace()
	if opts.load != "" {
		f, err := os.Open(opts.load)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		net, err := groundnet.ReadSnapshot(f, lf.Logger("groundnet"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.load, err)
		}
		rwy, ok := airspace.RunwayFromNetwork(net)
		if !ok {
			return nil, fmt.Errorf("%s: %s: %w", opts.load, net.Airport, simulation.ErrNoRunway)
		}
		as.AddAirport(net.Airport, net.Airport, rwy.Start, []airspace.Runway{rwy}, net)
		as.ActiveRunways[net.Airport] = rwy.Name
		return as, nil
	}

	ref := orb.Point{4.76, 52.31}
	for i, id := range strings.Split(opts.airports, ",") {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, err := as.AddDemoAirport(id, airspace.Local(ref, float64(i)*30000, 0), lf.Logger("groundnet")); err != nil {
			return nil, err
		}
	}
	return as, nil
}

func saveSnapshot(path string, net *groundnet.Network) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := groundnet.WriteSnapshot(f, net); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

func serveMetrics(addr string, reg *metrics.Registry, lg *log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Registry, promhttp.HandlerOpts{Registry: reg.Registry}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Errorf("metrics server: %v", err)
		}
	}()
	lg.Infof("serving metrics on %s/metrics", addr)
	return srv
}

func printBoards(sim *simulation.Simulation, lg *log.Logger) {
	for _, id := range sim.AirportIDs() {
		recs, err := sim.Traffic(id)
		if err != nil {
			lg.Errorf("%s: %v", id, err)
			continue
		}
		msgs := slices.DeleteFunc(sim.RadioLog.Messages(), func(m radio.Message) bool {
			return !strings.HasPrefix(m.Station, id+" ")
		})
		if err := ui.WriteBoard(os.Stdout, id, recs, msgs, BOARD_MESSAGES); err != nil {
			lg.Errorf("%s: writing board: %v", id, err)
		}
	}
}
