package config

import "github.com/haskel/pricefit/internal/regression"

type Config struct {
	Data     DataConfig     `yaml:"data" json:"data"`
	Model    ModelConfig    `yaml:"model" json:"model"`
	Training TrainingConfig `yaml:"training" json:"training"`
	Plot     PlotConfig     `yaml:"plot" json:"plot"`
	History  HistoryConfig  `yaml:"history" json:"history"`
	Server   ServerConfig   `yaml:"server" json:"server"`
	Auth     AuthConfig     `yaml:"auth" json:"auth"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

type DataConfig struct {
	// Path of the km,price CSV file.
	Path string `yaml:"path" json:"path"`
}

type ModelConfig struct {
	// WeightsPath holds the "theta0,theta1" line.
	WeightsPath string `yaml:"weights_path" json:"weights_path"`
	// ReportPath holds the JSON training report. Empty disables it.
	ReportPath string `yaml:"report_path" json:"report_path"`
}

type TrainingConfig struct {
	LearningRate  float64 `yaml:"learning_rate" json:"learning_rate"`
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	// Epsilon of 0 disables early stopping.
	Epsilon float64 `yaml:"epsilon" json:"epsilon"`
}

// TrainConfig converts the section to the optimizer configuration.
func (t TrainingConfig) TrainConfig() regression.TrainConfig {
	return regression.TrainConfig{
		LearningRate:  t.LearningRate,
		MaxIterations: t.MaxIterations,
		Epsilon:       t.Epsilon,
	}
}

type PlotConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	DataOnly bool   `yaml:"data_only" json:"data_only"`
	Output   string `yaml:"output" json:"output"`
	// CostOutput receives the cost-per-iteration curve. Empty disables it.
	CostOutput string  `yaml:"cost_output" json:"cost_output"`
	WidthIn    float64 `yaml:"width_in" json:"width_in"`
	HeightIn   float64 `yaml:"height_in" json:"height_in"`
}

type HistoryConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Driver is sqlite3 or postgres.
	Driver string `yaml:"driver" json:"driver"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

type ServerConfig struct {
	Host         string          `yaml:"host" json:"host"`
	Port         int             `yaml:"port" json:"port"`
	MaxBodyBytes int64           `yaml:"max_body_bytes" json:"max_body_bytes"`
	RateLimit    RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
	// PerClient keeps one bucket per remote host.
	PerClient bool `yaml:"per_client" json:"per_client"`
}

type AuthConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"-"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}
