package config

import (
	"errors"
	"fmt"
	"math"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Data.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("data: %w", err))
	}

	if err := c.Model.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("model: %w", err))
	}

	if err := c.Training.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("training: %w", err))
	}

	if err := c.Plot.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("plot: %w", err))
	}

	if err := c.History.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("history: %w", err))
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}

	if err := c.Auth.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}

func (d *DataConfig) Validate() error {
	if d.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	return nil
}

func (m *ModelConfig) Validate() error {
	if m.WeightsPath == "" {
		return fmt.Errorf("weights_path cannot be empty")
	}
	if m.ReportPath != "" && m.ReportPath == m.WeightsPath {
		return fmt.Errorf("report_path must differ from weights_path")
	}
	return nil
}

// Validate rejects values that cannot drive a run. The learning rate is
// only required to be positive and finite; a rate that diverges is
// caught after training.
func (t *TrainingConfig) Validate() error {
	var errs []error

	if !(t.LearningRate > 0) || math.IsInf(t.LearningRate, 0) {
		errs = append(errs, fmt.Errorf("learning_rate must be a positive number, got %v", t.LearningRate))
	}

	if t.MaxIterations < 1 {
		errs = append(errs, fmt.Errorf("max_iterations must be at least 1, got %d", t.MaxIterations))
	}

	if t.Epsilon < 0 || math.IsNaN(t.Epsilon) {
		errs = append(errs, fmt.Errorf("epsilon must be non-negative, got %v", t.Epsilon))
	}

	return errors.Join(errs...)
}

func (p *PlotConfig) Validate() error {
	if p.Enabled && p.Output == "" {
		return fmt.Errorf("output cannot be empty when plot is enabled")
	}
	if p.WidthIn <= 0 || p.HeightIn <= 0 {
		return fmt.Errorf("width_in and height_in must be positive")
	}
	return nil
}

func (h *HistoryConfig) Validate() error {
	if !h.Enabled {
		return nil
	}
	validDrivers := map[string]bool{
		"sqlite3":  true,
		"postgres": true,
	}
	if !validDrivers[h.Driver] {
		return fmt.Errorf("invalid driver: %s (valid: sqlite3, postgres)", h.Driver)
	}
	if h.DSN == "" {
		return fmt.Errorf("dsn cannot be empty when history is enabled")
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", s.Port))
	}

	if s.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be non-negative"))
	}

	if s.RateLimit.Enabled {
		if s.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.requests_per_second must be positive"))
		}
		if s.RateLimit.Burst < 1 {
			errs = append(errs, fmt.Errorf("rate_limit.burst must be at least 1"))
		}
	}

	return errors.Join(errs...)
}

func (a *AuthConfig) Validate() error {
	if a.Enabled {
		if a.User == "" {
			return fmt.Errorf("user cannot be empty when auth is enabled")
		}
		if a.Password == "" {
			return fmt.Errorf("password cannot be empty when auth is enabled")
		}
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}

	return nil
}
