package config

type Otel struct {
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"product-catalog"`

	// CollectorURL is the OTLP gRPC endpoint; tracing export is off when empty.
	CollectorURL  string  `env:"OTEL_COLLECTOR_URL"`
	CollectorAuth string  `env:"OTEL_COLLECTOR_AUTH"`
	Insecure      bool    `env:"OTEL_INSECURE"`
	TraceIDRatio  float64 `env:"OTEL_TRACE_ID_RATIO" envDefault:"0.1"`

	K8sPodName   string `env:"K8S_POD_NAME"`
	K8sNamespace string `env:"K8S_NAMESPACE"`
}

// ExportEnabled reports whether spans are exported to a collector.
func (o Otel) ExportEnabled() bool {
	return o.CollectorURL != ""
}
