package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	gagannetra "github.com/MahulePratik/gagan-netra-edge"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("netra-edge %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to edge configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt, err := gagannetra.NewRuntime(cfg)
	if err != nil {
		return fmt.Errorf("build runtime: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return rt.Run(ctx)
}

// loadConfig reads the YAML config and applies credential overrides from
// the environment. A .env next to the binary is loaded first so secrets
// never have to live in the config file.
func loadConfig(path string) (*gagannetra.Config, error) {
	_ = godotenv.Load()

	cfg, err := gagannetra.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if v := os.Getenv("NETRA_REMOTE_CONN_STRING"); v != "" {
		cfg.Remote.ConnString = v
	}
	if v := os.Getenv("NETRA_OBJECT_ENDPOINT"); v != "" {
		cfg.Remote.ObjectEndpoint = v
	}
	if v := os.Getenv("NETRA_DEVICE_ID"); v != "" {
		cfg.Remote.DeviceID = v
	}
	return cfg, nil
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./data/config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := loadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"netra_incidents_total":           0,
		"netra_cooldown_suppressed_total": 0,
		"netra_sync_queue_length":         0,
		"netra_sync_failed_total":         0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %f", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] incidents=%f suppressed=%f sync_queue=%f sync_failed=%f\n",
		time.Now().Format(time.RFC3339),
		targets["netra_incidents_total"],
		targets["netra_cooldown_suppressed_total"],
		targets["netra_sync_queue_length"],
		targets["netra_sync_failed_total"],
	)
	return nil
}

func printUsage() {
	fmt.Printf(`GAGAN NETRA edge CLI

Usage:
  netra-edge <command> [flags]

Commands:
  run        Start the detection runtime using the provided config
  validate   Load and validate a config file without starting the runtime
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  netra-edge run -config ./data/config.yaml
  netra-edge validate -config ./data/config.yaml
  netra-edge stats -url http://localhost:9100/metrics -interval 1s
`)
}
