package mongo

import (
	"testing"
	"time"
)

func TestClientOptions(t *testing.T) {
	opts := clientOptions(Config{URI: "mongodb://localhost:27017", Timeout: 3 * time.Second})

	if opts.AppName == nil || *opts.AppName != appName {
		t.Fatalf("expected app name %q, got %v", appName, opts.AppName)
	}
	if opts.ServerSelectionTimeout == nil || *opts.ServerSelectionTimeout != 3*time.Second {
		t.Fatalf("expected 3s server selection timeout, got %v", opts.ServerSelectionTimeout)
	}
	if len(opts.Hosts) != 1 || opts.Hosts[0] != "localhost:27017" {
		t.Fatalf("unexpected hosts %v", opts.Hosts)
	}
}

func TestConfigTimeoutDefault(t *testing.T) {
	if got := (Config{}).timeout(); got != defaultTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultTimeout, got)
	}
}
