// Package conf loads service configuration from an optional TOML
// file with environment variable overrides on top.
package conf

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Http     HttpConfig     `toml:"http"`
	Judge    JudgeConfig    `toml:"judge"`
	Workers  WorkersConfig  `toml:"workers"`
	Problems ProblemsConfig `toml:"problems"`
}

type HttpConfig struct {
	Address        string   `toml:"address"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type JudgeConfig struct {
	Url string `toml:"url"`
}

type WorkersConfig struct {
	Count     int `toml:"count"`
	QueueSize int `toml:"queue_size"`
}

type ProblemsConfig struct {
	Dir string `toml:"dir"`
}

func Default() Config {
	return Config{
		Http: HttpConfig{
			Address:        ":8000",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Judge: JudgeConfig{
			Url: "http://localhost:2358",
		},
		Workers: WorkersConfig{
			Count:     8,
			QueueSize: 1024,
		},
		Problems: ProblemsConfig{
			Dir: "Contests",
		},
	}
}

// Load reads the TOML file at path when it exists, then applies env
// overrides. A missing file is fine; a malformed one is not.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.Workers.Count <= 0 {
		return Config{}, fmt.Errorf("worker count must be positive, got %d", cfg.Workers.Count)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.Http.Address = v
	}
	if v := os.Getenv("JUDGE_URL"); v != "" {
		cfg.Judge.Url = v
	}
	if v := os.Getenv("CONTESTS_DIR"); v != "" {
		cfg.Problems.Dir = v
	}
	if v := os.Getenv("WORKER_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers.Count = n
		}
	}
}
