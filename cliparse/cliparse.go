package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/hackline/judgeflow/models"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	JudgeKeySalt  string
	JudgesPerTeam int
	DefaultRound  int
	RosterPath    string
}

// ParseFlags validates flags and sets defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("judgeflow", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Event config
	fs.IntVar(&cfg.JudgesPerTeam, "judges", 0, "Required judges per team per round")
	fs.IntVar(&cfg.DefaultRound, "round", 0, "Default round when a request omits one")
	fs.StringVar(&cfg.RosterPath, "roster", "", "YAML roster file to load at startup")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JudgeKeySalt, "judge-salt", "", "Judge key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

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
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	if cfg.JudgesPerTeam == 0 {
		if n := os.Getenv("JUDGES_PER_TEAM"); n != "" {
			judges, err := strconv.Atoi(n)
			if err != nil {
				return Config{}, errors.New("invalid JUDGES_PER_TEAM env variable")
			}
			cfg.JudgesPerTeam = judges
		} else {
			cfg.JudgesPerTeam = models.DefaultJudgesPerTeam
		}
	}
	if cfg.JudgesPerTeam < 1 {
		return Config{}, errors.New("judges per team must be at least 1")
	}

	if cfg.DefaultRound == 0 {
		if n := os.Getenv("DEFAULT_ROUND"); n != "" {
			round, err := strconv.Atoi(n)
			if err != nil {
				return Config{}, errors.New("invalid DEFAULT_ROUND env variable")
			}
			cfg.DefaultRound = round
		} else {
			cfg.DefaultRound = 1
		}
	}
	if cfg.DefaultRound < 1 {
		return Config{}, errors.New("default round must be positive")
	}

	if cfg.RosterPath == "" {
		cfg.RosterPath = os.Getenv("ROSTER_PATH")
	}

	// Secrets - MUST be provided
	if cfg.JudgeKeySalt == "" {
		cfg.JudgeKeySalt = os.Getenv("JUDGE_KEY_SALT")
	}
	if cfg.JudgeKeySalt == "" {
		return Config{}, errors.New("JUDGE_KEY_SALT required")
	}

	return cfg, nil
}
