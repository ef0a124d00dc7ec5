package idlock

import "time"

// RedisConfig configures the Redis locker and its client.
type RedisConfig struct {
	// Addrs is a comma separated list of "host:port" addresses.
	Addrs string `yaml:"addrs" validate:"required"`

	Username string `yaml:"username"`
	Password string `yaml:"password" mask:"true"`

	// IsClusterMode indicates whether Addrs point to a Redis cluster.
	IsClusterMode bool `yaml:"is_cluster_mode"`

	// Prefix is prepended to every lock key.
	Prefix string `yaml:"prefix" default:"filemanager:lock:"`

	// TTL bounds how long a lock survives a crashed holder.
	TTL time.Duration `yaml:"ttl" default:"30s" validate:"gt=0"`

	// RetryInterval is the pause between attempts to take a busy lock.
	RetryInterval time.Duration `yaml:"retry_interval" default:"50ms" validate:"gt=0"`
}
