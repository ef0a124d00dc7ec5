package tracing

import "time"

const (
	reconnectionPeriod = 30 * time.Second
	clientTimeout      = 10 * time.Second
	maxQueueSize       = 4096
	batchTimeout       = 5 * time.Second
	maxExportBatchSize = 512
	shutdownTimeout    = 5 * time.Second
)

// Config configures span export.
type Config struct {
	// Disable installs a no-op tracer provider.
	Disable bool `yaml:"disable" default:"false"`

	// SampleRate is the fraction of root spans sampled, from 0 to 1.
	SampleRate float64 `yaml:"sample_rate" default:"1" validate:"gte=0,lte=1"`

	// ExporterHost and ExporterPort address the OTLP gRPC collector.
	ExporterHost string `yaml:"exporter_host" validate:"required_unless=Disable true"`
	ExporterPort int    `yaml:"exporter_port" validate:"required_unless=Disable true"`

	// Tags are added as resource attributes to every span.
	Tags map[string]string `yaml:"tags"`
}
