// Command actuatord drives the door servo from the actuator flag written by
// the controller. It polls the flag once per interval and moves the servo to
// its maximum on "open" and its minimum on "close". Flag defaults come from
// the same environment the server reads.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/ahmetcoskunkizilkaya/accessgate/internal/config"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/logging"
	"github.com/ahmetcoskunkizilkaya/accessgate/internal/signal"
)

type options struct {
	backend    string
	statusFile string
	redisURL   string
	keyPrefix  string
	interval   time.Duration
	appEnv     string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var opts options
	flagSet := pflag.NewFlagSet("actuatord", pflag.ContinueOnError)
	flagSet.StringVar(&opts.backend, "backend", cfg.SignalBackend, "signal backend: file or redis")
	flagSet.StringVar(&opts.statusFile, "status-file", cfg.ActuatorPath, "actuator status file (file backend)")
	flagSet.StringVar(&opts.redisURL, "redis-url", cfg.RedisURL, "redis URL (redis backend)")
	flagSet.StringVar(&opts.keyPrefix, "key-prefix", cfg.SignalKeyPrefix, "redis key prefix (redis backend)")
	flagSet.DurationVar(&opts.interval, "interval", cfg.PeerInterval, "poll interval")
	flagSet.StringVar(&opts.appEnv, "app-env", cfg.AppEnv, "development enables debug logs")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.interval <= 0 {
		return errors.New("--interval must be positive")
	}

	logging.Setup(opts.appEnv)

	source, closeSource, err := openSource(opts)
	if err != nil {
		return err
	}
	defer closeSource()

	ctx, stop := ossignal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("actuator daemon starting", "backend", opts.backend, "interval", opts.interval.String())
	d := newDaemon(source, &logServo{})
	err = signal.Poll(ctx, opts.interval, d.step)
	if errors.Is(err, context.Canceled) {
		slog.Info("actuator daemon stopped")
		return nil
	}
	return err
}

func openSource(opts options) (signal.CommandSource, func(), error) {
	switch opts.backend {
	case config.SignalFile:
		return signal.NewFileChannel("", opts.statusFile), func() {}, nil
	case config.SignalRedis:
		if opts.redisURL == "" {
			return nil, nil, errors.New("--redis-url is required for the redis backend")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := signal.NewRedisClient(ctx, opts.redisURL)
		if err != nil {
			return nil, nil, err
		}
		return signal.NewRedisChannel(client, opts.keyPrefix), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", opts.backend)
	}
}
