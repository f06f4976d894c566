package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool
	GinMode     string

	Optimizer OptimizerConfig
}

// OptimizerConfig holds the solver tunables. None of these are "correct"
// constants; they are deployment knobs with conservative defaults.
type OptimizerConfig struct {
	// MaxBatchSize bounds the number of transactions per solve.
	MaxBatchSize int
	// QuantumThreshold is the largest batch the quantum-style path accepts
	// in auto mode; larger batches go straight to the classical path.
	QuantumThreshold int
	// SampleCount is the best-of-N shot count for the annealer.
	SampleCount int
	// AnnealSweeps is the number of full-variable sweeps per shot.
	AnnealSweeps int
	// PenaltyFactor scales the one-hot constraint penalty relative to the
	// largest cost coefficient.
	PenaltyFactor float64
	// SolverTimeout bounds one quantum-path round trip.
	SolverTimeout time.Duration
	// PressureWeight adds cost to gateways that keep winning batches,
	// spreading routing load. Zero disables the term.
	PressureWeight float64

	// Default objective weights, used when a request omits them.
	FeeWeight         float64
	LatencyWeight     float64
	ReliabilityWeight float64
}

func Load() *Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "qpay"),
		DBPassword:  getEnv("DB_PASSWORD", "qpay_secret"),
		DBName:      getEnv("DB_NAME", "qpay"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "false") == "true",
		GinMode:     getEnv("GIN_MODE", "debug"),
		Optimizer: OptimizerConfig{
			MaxBatchSize:      getEnvInt("OPTIMIZER_MAX_BATCH_SIZE", 100),
			QuantumThreshold:  getEnvInt("OPTIMIZER_QUANTUM_THRESHOLD", 16),
			SampleCount:       getEnvInt("OPTIMIZER_SAMPLE_COUNT", 20),
			AnnealSweeps:      getEnvInt("OPTIMIZER_ANNEAL_SWEEPS", 200),
			PenaltyFactor:     getEnvFloat("OPTIMIZER_PENALTY_FACTOR", 2.0),
			SolverTimeout:     getEnvDuration("OPTIMIZER_SOLVER_TIMEOUT", 2*time.Second),
			PressureWeight:    getEnvFloat("OPTIMIZER_PRESSURE_WEIGHT", 0),
			FeeWeight:         getEnvFloat("OPTIMIZER_FEE_WEIGHT", 1.0),
			LatencyWeight:     getEnvFloat("OPTIMIZER_LATENCY_WEIGHT", 0.1),
			ReliabilityWeight: getEnvFloat("OPTIMIZER_RELIABILITY_WEIGHT", 0.1),
		},
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
