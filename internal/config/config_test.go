package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"seatbook/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Capacity != 4 {
		t.Fatalf("Capacity = %d, want 4", cfg.Capacity)
	}
	if !cfg.Matrix.Offers(domain.Monday, domain.Afternoon) || cfg.Matrix.Offers(domain.Thursday, domain.Afternoon) {
		t.Fatalf("default matrix not loaded")
	}
	if cfg.Client.SweepInterval != time.Hour {
		t.Fatalf("SweepInterval = %s, want 1h", cfg.Client.SweepInterval)
	}
	if !cfg.Client.OfflineWrites {
		t.Fatalf("OfflineWrites = false, want true")
	}
	if cfg.GRPCAddr() != "0.0.0.0:50051" {
		t.Fatalf("GRPCAddr = %q", cfg.GRPCAddr())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SEATBOOK_BOOKING_CAPACITY", "6")
	t.Setenv("SEATBOOK_CLIENT_API_URL", "http://booking.local/api/")
	t.Setenv("SEATBOOK_GRPC_ADDR", "127.0.0.1:6000")
	t.Setenv("SEATBOOK_DATABASE_DRIVER", "memory")
	t.Setenv("SEATBOOK_CLIENT_OFFLINE_WRITES", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Capacity != 6 {
		t.Fatalf("Capacity = %d, want 6", cfg.Capacity)
	}
	if cfg.Client.APIURL != "http://booking.local/api" {
		t.Fatalf("APIURL = %q", cfg.Client.APIURL)
	}
	if cfg.GRPCAddr() != "127.0.0.1:6000" {
		t.Fatalf("GRPCAddr = %q", cfg.GRPCAddr())
	}
	if cfg.DatabaseDriver != "memory" {
		t.Fatalf("DatabaseDriver = %q", cfg.DatabaseDriver)
	}
	if cfg.Client.OfflineWrites {
		t.Fatalf("OfflineWrites = true, want false")
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{key: "SEATBOOK_BOOKING_CAPACITY", value: "0"},
		{key: "SEATBOOK_SHUTDOWN_TIMEOUT", value: "soon"},
		{key: "SEATBOOK_CACHE_DRIVER", value: "memcached"},
		{key: "SEATBOOK_CLIENT_TIMEZONE", value: "Mars/Olympus"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load accepted %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_MatrixFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.yaml")
	content := "slots:\n  morning: [monday, friday]\n  afternoon: [giovedi]\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	t.Setenv("SEATBOOK_BOOKING_MATRIX_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Matrix.Offers(domain.Thursday, domain.Afternoon) {
		t.Fatalf("thursday afternoon should be offered")
	}
	if cfg.Matrix.Offers(domain.Tuesday, domain.Morning) {
		t.Fatalf("tuesday morning should not be offered")
	}
}

func TestParseMatrix_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: "slots: {}\n"},
		{name: "bad slot", data: "slots:\n  evening: [monday]\n"},
		{name: "bad day", data: "slots:\n  morning: [sunday]\n"},
		{name: "bad yaml", data: "slots: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMatrix([]byte(tt.data)); err == nil {
				t.Fatalf("ParseMatrix accepted %q", tt.data)
			}
		})
	}
}
