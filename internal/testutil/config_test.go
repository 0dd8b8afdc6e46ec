package testutil

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultTestDBConfig(t *testing.T) {
	t.Run("defaults to local test database port 55432", func(t *testing.T) {
		for _, k := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME"} {
			t.Setenv(k, "")
		}

		cfg := DefaultTestDBConfig()
		want := TestDBConfig{Host: "localhost", Port: "55432", User: "folio", Password: "folio", DBName: "folio"}
		if cfg != want {
			t.Errorf("DefaultTestDBConfig() = %+v, want %+v", cfg, want)
		}
	})

	t.Run("respects TEST_DB_PORT environment variable", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "postgres")
		t.Setenv("TEST_DB_PORT", "5432")

		cfg := DefaultTestDBConfig()
		if cfg.Host != "postgres" {
			t.Errorf("expected Host=postgres, got %s", cfg.Host)
		}
		if cfg.Port != "5432" {
			t.Errorf("expected Port=5432, got %s", cfg.Port)
		}
	})
}

func TestTestTimeProvider(t *testing.T) {
	start := TestTime()
	p := NewTestTimeProvider(start)
	p.AddTime(time.Minute)
	if got := p.Now(); !got.Equal(start.Add(time.Minute)) {
		t.Errorf("Now() = %v, want %v", got, start.Add(time.Minute))
	}
	p.SetTime(start)
	if got := p.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}
	if got := FixedTimeFunc(start)(); !got.Equal(start) {
		t.Errorf("FixedTimeFunc() = %v, want %v", got, start)
	}
}

func TestMakeToken(t *testing.T) {
	raw := AdminToken(t, TestTime())
	parts := 0
	for _, c := range raw {
		if c == '.' {
			parts++
		}
	}
	if parts != 2 {
		t.Fatalf("token %q should have three segments", raw)
	}
}

func TestTestDBConfigDSN(t *testing.T) {
	t.Setenv("DB_SSL_MODE", "")
	cfg := TestDBConfig{Host: "db", Port: "5432", User: "u", Password: "p@ss", DBName: "folio"}

	if got, want := cfg.DSN(""), "postgres://u:p%40ss@db:5432/folio?sslmode=disable"; got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if got := cfg.DSN("t_abc"); !strings.Contains(got, "search_path=t_abc%2Cpublic") {
		t.Errorf("DSN(schema) = %q, want search_path", got)
	}
}
