package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultDatabaseURL  = "file::memory:?cache=shared"
	DefaultElectionID   = "general-election"
	DefaultStepDelay    = time.Second
	DefaultSessionTTL   = 30 * time.Minute
	DefaultGenesisBlock = 18500745
)

type Config struct {
	Port           int
	DatabaseURL    string
	DatabaseType   string
	AdminKeySalt   string
	NullifierSalt  string
	ElectionID     string
	StepDelay      time.Duration
	SessionTTL     time.Duration
	CandidatesFile string
	GenesisBlock   int64
	DemoOTP        bool
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("verivote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.NullifierSalt, "nullifier-salt", "", "Voter nullifier salt (prefer env)")

	// Election
	fs.StringVar(&cfg.ElectionID, "election", "", "Election id")
	fs.StringVar(&cfg.CandidatesFile, "candidates", "", "Candidates YAML file")
	fs.Int64Var(&cfg.GenesisBlock, "genesis", 0, "Ledger height before the first vote")
	fs.DurationVar(&cfg.StepDelay, "step-delay", DefaultStepDelay, "Simulated verification delay")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", DefaultSessionTTL, "Idle session lifetime")
	fs.BoolVar(&cfg.DemoOTP, "demo-otp", true, "Return OTP codes in responses")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultDatabaseURL
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.NullifierSalt == "" {
		cfg.NullifierSalt = os.Getenv("NULLIFIER_SALT")
	}
	if cfg.NullifierSalt == "" {
		return Config{}, errors.New("NULLIFIER_SALT required")
	}

	if cfg.ElectionID == "" {
		cfg.ElectionID = os.Getenv("ELECTION_ID")
		if cfg.ElectionID == "" {
			cfg.ElectionID = DefaultElectionID
		}
	}

	if cfg.CandidatesFile == "" {
		cfg.CandidatesFile = os.Getenv("CANDIDATES_FILE")
	}

	if cfg.GenesisBlock == 0 {
		if s := os.Getenv("GENESIS_BLOCK"); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil || n < 0 {
				return Config{}, errors.New("invalid GENESIS_BLOCK env variable")
			}
			cfg.GenesisBlock = n
		} else {
			cfg.GenesisBlock = DefaultGenesisBlock
		}
	}

	if !set["step-delay"] {
		if s := os.Getenv("STEP_DELAY"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid STEP_DELAY env variable")
			}
			cfg.StepDelay = d
		}
	}
	if cfg.StepDelay < 0 {
		return Config{}, errors.New("step delay must not be negative")
	}

	if !set["session-ttl"] {
		if s := os.Getenv("SESSION_TTL"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = d
		}
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	if !set["demo-otp"] {
		if s := os.Getenv("DEMO_OTP"); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return Config{}, errors.New("invalid DEMO_OTP env variable")
			}
			cfg.DemoOTP = b
		}
	}

	return cfg, nil
}
