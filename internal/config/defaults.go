package config

// DefaultFile is looked up in the working directory when no config path
// is given.
const DefaultFile = "pricefit.yaml"

func Default() *Config {
	return &Config{
		Data: DataConfig{
			Path: "data.csv",
		},
		Model: ModelConfig{
			WeightsPath: "weights",
			ReportPath:  "weights.report.json",
		},
		Training: TrainingConfig{
			LearningRate:  0.1,
			MaxIterations: 1000,
			Epsilon:       1e-9,
		},
		Plot: PlotConfig{
			Enabled:  false,
			DataOnly: false,
			Output:   "plot.png",
			WidthIn:  6.4,
			HeightIn: 4.8,
		},
		History: HistoryConfig{
			Enabled: false,
			Driver:  "sqlite3",
			DSN:     "pricefit.db",
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			MaxBodyBytes: 4096,
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 50,
				Burst:             100,
				PerClient:         true,
			},
		},
		Auth: AuthConfig{
			Enabled:  false,
			User:     "",
			Password: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
