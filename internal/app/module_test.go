package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/bus"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/config"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/conn"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/directory"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/model"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/profile"
	"github.com/aadhamashraf/WebSocket-Scalable-Chat/internal/roomview"
)

func TestClientLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rooms" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"general","name":"General","member_count":3}]`))
	}))
	defer srv.Close()

	// Compose the same graph the fx module provides.
	logger := zap.NewNop()
	b := bus.New()
	client := directory.NewClient(srv.URL)
	poller := directory.NewPoller(client, b, logger, time.Hour)
	binding := roomview.NewBinding(conn.Config{WSBase: "ws://unused"}, b, logger)

	ch, unsub := b.Subscribe("directory.", 16)
	defer unsub()

	binding.Start(context.Background())
	defer binding.Close()
	poller.Start(context.Background())
	defer poller.Stop()

	select {
	case evt := <-ch:
		if evt.Kind != "directory.rooms" {
			t.Fatalf("event kind = %q, want directory.rooms", evt.Kind)
		}
		rooms, ok := evt.Payload.([]model.Room)
		if !ok || len(rooms) != 1 {
			t.Fatalf("payload = %#v, want one room", evt.Payload)
		}
		if rooms[0].ID != "general" || rooms[0].MemberCount != 3 {
			t.Errorf("room = %+v", rooms[0])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for room roster")
	}
}

func TestProvideConfigDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := provideConfig(Params{Username: "amy"})
	if err != nil {
		t.Fatalf("provideConfig() error = %v", err)
	}
	if cfg.APIBase != config.DefaultAPIBase || cfg.WSBase != config.DefaultWSBase {
		t.Errorf("cfg = %+v, want local-development defaults", cfg)
	}
	if cfg.Username != "amy" {
		t.Errorf("username = %q, want amy", cfg.Username)
	}
}

func TestProvideConfigReadsFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	saved := &config.Config{APIBase: "http://chat.example:9000", WSBase: "ws://chat.example:9000"}
	if err := config.Save(profile.ConfigPath(), saved); err != nil {
		t.Fatal(err)
	}

	cfg, err := provideConfig(Params{Username: "bob"})
	if err != nil {
		t.Fatalf("provideConfig() error = %v", err)
	}
	if cfg.APIBase != "http://chat.example:9000" {
		t.Errorf("api_base = %q, want value from config file", cfg.APIBase)
	}
	if cfg.Username != "bob" {
		t.Errorf("username = %q, command-line identity must win", cfg.Username)
	}
}

func TestProvideLoggerCreatesProfileTree(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	logger, err := provideLogger(Params{Username: "amy"})
	if err != nil {
		t.Fatalf("provideLogger() error = %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	if _, err := os.Stat(profile.LogPath("amy")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestProvideLockIsExclusive(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	logger := zap.NewNop()
	if err := profile.EnsureDir("amy"); err != nil {
		t.Fatal(err)
	}

	l1, err := provideLock(Params{Username: "amy"}, logger)
	if err != nil {
		t.Fatalf("first acquire error = %v", err)
	}
	if _, err := provideLock(Params{Username: "amy"}, logger); err == nil {
		t.Error("second acquire succeeded, want lock-held error")
	}
	if err := l1.Release(); err != nil {
		t.Errorf("release error = %v", err)
	}
}
