// Command tmscontrold runs the TMS control core: it ingests tracker
// state and commands from neuronavigation over the remote control sink,
// connects the configured robot driver when neuronavigation asks, reads
// force samples from the configured force source, and drives the 30 Hz
// control loop until terminated.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmscore/control/internal/config"
	"github.com/tmscore/control/internal/log"
	"github.com/tmscore/control/pkg/controller"
	"github.com/tmscore/control/pkg/forcesource"
	"github.com/tmscore/control/pkg/pidgroup"
	"github.com/tmscore/control/pkg/remote"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the site configuration file")
	remotePort := flag.String("port", "8765", "remote control sink listen port")
	logLevel := flag.String("log-level", "info", "debug, info, warn, or error")
	flag.Parse()

	log.Init(*logLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	force := buildForceSource(cfg)
	pid := pidgroup.New(pidgroup.DefaultConfig())

	hub := remote.NewHub(nil)
	server := remote.NewServer(*remotePort, hub)

	// The Robot Driver, Movement Algorithm, and State Machine are not
	// built here: they come into existence only once a robot_connection
	// message arrives over the remote sink, carrying the robot IP to
	// dial.
	core := controller.New(cfg, pid, force, hub)
	hub.SetDispatcher(remote.DispatcherFunc(core.Dispatch))

	server.StartAsync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runLoop(ctx, core)

	log.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		log.Warn("remote sink shutdown error", "error", err)
	}
	if err := core.Close(); err != nil {
		log.Warn("driver close error", "error", err)
	}
}

// runLoop drives Controller.Update at the control loop's target cadence
// until ctx is cancelled, matching the single-threaded cooperative tick
// model: each Update call must return before the next ticker fires.
func runLoop(ctx context.Context, core *controller.Controller) {
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			core.Update()
		}
	}
}

func buildForceSource(cfg config.Config) forcesource.Source {
	switch {
	case cfg.UseForceSensor:
		return forcesource.NewSixAxis(driverForceReader{})
	case cfg.UsePressureSensor:
		return forcesource.NewPressure(driverForceReader{})
	default:
		return nil
	}
}

// driverForceReader is a placeholder Reader with no hardware behind it:
// a site enabling use_force_sensor or use_pressure_sensor must supply a
// real transport (serial, vendor SDK) by replacing this constructor.
type driverForceReader struct{}

func (driverForceReader) Read() ([]forcesource.Sample, error) {
	return nil, nil
}
