package reconcile

// Config configures the background hash refresh.
type Config struct {
	// Disable turns the scheduled refresh off.
	Disable bool `yaml:"disable"`

	// CronPattern is a five field cron expression or a descriptor such as
	// "@hourly" or "@every 15m".
	CronPattern string `yaml:"cron_pattern" default:"*/10 * * * *" validate:"required_unless=Disable true"`

	// BatchSize is the number of records read per page.
	BatchSize int `yaml:"batch_size" default:"100" validate:"gt=0"`
}
