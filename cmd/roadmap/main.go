package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/ritzau/roadmap/pkg/canvas"
	"github.com/ritzau/roadmap/pkg/config"
	"github.com/ritzau/roadmap/pkg/dataset"
	"github.com/ritzau/roadmap/pkg/logging"
	"github.com/ritzau/roadmap/pkg/model"
	"github.com/ritzau/roadmap/pkg/output"
	"github.com/ritzau/roadmap/pkg/web"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("roadmap", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level, err := logging.ParseLevel(cfg.Verbosity, cfg.VerboseCnt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(logging.Options{Level: level, JSON: cfg.JSONLogs})

	nodes, edges, err := loadRoadmap(cfg.Seed)
	if err != nil {
		logging.Fatal("failed to load roadmap", "seed", cfg.Seed, "error", err)
	}
	logging.Debug("roadmap loaded", "nodes", len(nodes), "edges", len(edges))

	if cfg.Print {
		output.PrintRoadmap(os.Stdout, nodes, edges)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher := web.NewPublisher(64)

	controller := canvas.New(nodes, edges, canvas.WithChangeHook(web.ChangePublisher(publisher)))
	server, err := web.NewServer(controller, publisher)
	if err != nil {
		logging.Fatal("failed to create web server", "error", err)
	}

	fmt.Printf("Serving roadmap on %s\n", cfg.URL())
	if cfg.OpenBrowser {
		openBrowser(cfg.URL())
	}

	if err := server.Run(ctx, cfg.Addr()); err != nil {
		logging.Fatal("web server failed", "error", err)
	}
}

func loadRoadmap(seed string) ([]model.Node, []model.Edge, error) {
	if seed == "" {
		nodes, edges := dataset.Seed()
		return nodes, edges, nil
	}
	return dataset.LoadFile(seed)
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		logging.Warn("cannot open browser on this platform", "os", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		logging.Warn("failed to open browser", "error", err)
	}
}
