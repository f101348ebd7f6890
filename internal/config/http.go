package config

import "time"

type HTTP struct {
	Port    uint32 `env:"HTTP_PORT" envDefault:"8000"`
	Swagger bool   `env:"HTTP_SWAGGER" envDefault:"true"`

	// SimulatedLatency is added to every request before it reaches the store.
	SimulatedLatency time.Duration `env:"HTTP_SIMULATED_LATENCY" envDefault:"100ms"`

	CorsAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}
