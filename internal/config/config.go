package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress            string
	DatabaseURI           string
	AuthSecret            string
	UnpaidOrderTimeout    time.Duration
	PaymentSweepInterval  time.Duration
	DeliverySweepInterval time.Duration
	ShutdownTimeout       time.Duration
}

const (
	defaultRunAddress            = ":8080"
	defaultAuthSecret            = "change-me-in-production"
	defaultUnpaidOrderTimeout    = 15 * time.Minute
	defaultPaymentSweepInterval  = time.Minute
	defaultDeliverySweepInterval = 30 * time.Minute
	defaultShutdownTimeout       = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		AuthSecret:            getString(lookup, "AUTH_SECRET", defaultAuthSecret),
		UnpaidOrderTimeout:    getDuration(lookup, "UNPAID_ORDER_TIMEOUT", defaultUnpaidOrderTimeout),
		PaymentSweepInterval:  getDuration(lookup, "PAYMENT_SWEEP_INTERVAL", defaultPaymentSweepInterval),
		DeliverySweepInterval: getDuration(lookup, "DELIVERY_SWEEP_INTERVAL", defaultDeliverySweepInterval),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("mealflow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		unpaidTimeoutStr   = cfg.UnpaidOrderTimeout.String()
		paymentSweepStr    = cfg.PaymentSweepInterval.String()
		deliverySweepStr   = cfg.DeliverySweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "Secret for signing auth tokens")
	fs.StringVar(&unpaidTimeoutStr, "unpaid-timeout", unpaidTimeoutStr, "Age after which an unpaid order is cancelled")
	fs.StringVar(&paymentSweepStr, "payment-sweep", paymentSweepStr, "Interval between unpaid-order sweeps")
	fs.StringVar(&deliverySweepStr, "delivery-sweep", deliverySweepStr, "Interval between delivery settlement sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.UnpaidOrderTimeout, err = time.ParseDuration(unpaidTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid unpaid order timeout: %w", err)
	}

	if cfg.PaymentSweepInterval, err = time.ParseDuration(paymentSweepStr); err != nil {
		return nil, fmt.Errorf("invalid payment sweep interval: %w", err)
	}

	if cfg.DeliverySweepInterval, err = time.ParseDuration(deliverySweepStr); err != nil {
		return nil, fmt.Errorf("invalid delivery sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("AUTH_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read auth secret file: %w", err)
		}
		cfg.AuthSecret = string(content)
	}

	if cfg.UnpaidOrderTimeout <= 0 {
		cfg.UnpaidOrderTimeout = defaultUnpaidOrderTimeout
	}

	if cfg.PaymentSweepInterval <= 0 {
		cfg.PaymentSweepInterval = defaultPaymentSweepInterval
	}

	if cfg.DeliverySweepInterval <= 0 {
		cfg.DeliverySweepInterval = defaultDeliverySweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
