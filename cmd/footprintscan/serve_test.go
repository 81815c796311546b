package main

import (
	"testing"

	"github.com/anityu45/footprintscan/internal/config"
)

func TestBuildServeConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("buildServeConfig() error = %v", err)
		}
		if cfg.ListenAddr != config.DefaultListenAddr {
			t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, config.DefaultListenAddr)
		}
		if cfg.WorkerCount != config.DefaultWorkerCount {
			t.Errorf("WorkerCount = %d, want %d", cfg.WorkerCount, config.DefaultWorkerCount)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{"--addr", ":9999", "--workers", "2", "--queue", "16"}); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("buildServeConfig() error = %v", err)
		}
		if cfg.ListenAddr != ":9999" {
			t.Errorf("ListenAddr = %q, want :9999", cfg.ListenAddr)
		}
		if cfg.WorkerCount != 2 || cfg.QueueSize != 16 {
			t.Errorf("WorkerCount/QueueSize = %d/%d, want 2/16", cfg.WorkerCount, cfg.QueueSize)
		}
	})
}
