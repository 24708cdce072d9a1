// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ADMIN_KEY_SALT", "test-salt")
	t.Setenv("NULLIFIER_SALT", "test-nullifier")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("ELECTION_ID", "mayor-2025")
	t.Setenv("STEP_DELAY", "250ms")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("GENESIS_BLOCK", "100")
	t.Setenv("DEMO_OTP", "false")
	t.Setenv("CANDIDATES_FILE", "ballot.yaml")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.ElectionID != "mayor-2025" {
		t.Errorf("expected election mayor-2025, got %s", cfg.ElectionID)
	}
	if cfg.StepDelay != 250*time.Millisecond {
		t.Errorf("expected step delay 250ms, got %s", cfg.StepDelay)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("expected session TTL 5m, got %s", cfg.SessionTTL)
	}
	if cfg.GenesisBlock != 100 {
		t.Errorf("expected genesis 100, got %d", cfg.GenesisBlock)
	}
	if cfg.DemoOTP {
		t.Error("expected demo OTP off")
	}
	if cfg.CandidatesFile != "ballot.yaml" {
		t.Errorf("expected candidates file ballot.yaml, got %s", cfg.CandidatesFile)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	os.Clearenv()
	setRequired(t)

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" || cfg.DatabaseURL != DefaultDatabaseURL {
		t.Errorf("expected in-memory sqlite, got %s %s", cfg.DatabaseType, cfg.DatabaseURL)
	}
	if cfg.ElectionID != DefaultElectionID {
		t.Errorf("expected default election id, got %s", cfg.ElectionID)
	}
	if cfg.StepDelay != time.Second {
		t.Errorf("expected 1s step delay, got %s", cfg.StepDelay)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %s", cfg.SessionTTL)
	}
	if cfg.GenesisBlock != DefaultGenesisBlock {
		t.Errorf("expected default genesis, got %d", cfg.GenesisBlock)
	}
	if !cfg.DemoOTP {
		t.Error("expected demo OTP on by default")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STEP_DELAY", "5s")
	t.Setenv("DEMO_OTP", "true")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-step-delay", "0s", "-demo-otp=false"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.StepDelay != 0 {
		t.Errorf("CLI should override env: expected 0s, got %s", cfg.StepDelay)
	}
	if cfg.DemoOTP {
		t.Error("CLI should override env: expected demo OTP off")
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing admin salt", map[string]string{"NULLIFIER_SALT": "n"}, nil},
		{"missing nullifier salt", map[string]string{"ADMIN_KEY_SALT": "a"}, nil},
		{"postgres without url", map[string]string{"ADMIN_KEY_SALT": "a", "NULLIFIER_SALT": "n", "DATABASE_TYPE": "postgres"}, nil},
		{"unknown database type", map[string]string{"ADMIN_KEY_SALT": "a", "NULLIFIER_SALT": "n"}, []string{"-t", "mysql"}},
		{"bad port", map[string]string{"ADMIN_KEY_SALT": "a", "NULLIFIER_SALT": "n", "PORT": "abc"}, nil},
		{"bad step delay", map[string]string{"ADMIN_KEY_SALT": "a", "NULLIFIER_SALT": "n", "STEP_DELAY": "soon"}, nil},
		{"zero ttl", map[string]string{"ADMIN_KEY_SALT": "a", "NULLIFIER_SALT": "n"}, []string{"-session-ttl", "0s"}},
		{"bad demo otp", map[string]string{"ADMIN_KEY_SALT": "a", "NULLIFIER_SALT": "n", "DEMO_OTP": "maybe"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}
