package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Index  IndexConfig  `yaml:"index"`
	Bench  BenchConfig  `yaml:"bench"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr"`     // HTTP Listen Address (e.g. :8080)
	TCPAddr string `yaml:"tcp_addr"` // TCP Listen Address (e.g. :9090)
}

type DataConfig struct {
	Source     string `yaml:"source"` // "csv" or "sqlite"
	CSVPath    string `yaml:"csv_path"`
	SQLitePath string `yaml:"sqlite_path"`
}

type IndexConfig struct {
	BlockSize int `yaml:"block_size"`
}

type BenchConfig struct {
	RangeWidth int64 `yaml:"range_width"` // half-width of the id range query
	Repeat     int   `yaml:"repeat"`
}

const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			TCPAddr: ":9090",
		},
		Data: DataConfig{
			Source:     SourceCSV,
			CSVPath:    "uni.csv",
			SQLitePath: "uni.db",
		},
		Index: IndexConfig{
			BlockSize: 100,
		},
		Bench: BenchConfig{
			RangeWidth: 50,
			Repeat:     1,
		},
	}
}

func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		for _, p := range []string{"configs/blockindex.yaml", "blockindex.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, err
				}
				applyDefaults(cfg)
				return cfg, nil
			}
		}
		applyDefaults(cfg)
		return cfg, nil // no file found: use defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Index.BlockSize <= 0 {
		cfg.Index.BlockSize = 100
	}
	// unknown sources are kept so storage.LoadRecords can reject them
	if cfg.Data.Source == "" {
		cfg.Data.Source = SourceCSV
	}
	if cfg.Bench.RangeWidth < 0 {
		cfg.Bench.RangeWidth = 50
	}
	if cfg.Bench.Repeat <= 0 {
		cfg.Bench.Repeat = 1
	}
}
