package utils

// Config represents the configuration of the mergekv bench tool.
type Config struct {
	DBPath             string
	MetricAddr         string
	MaxBufferedRecords int
	LogicalKeys        int
	Records            int
}

// NewDevelopmentConfig returns a dev Config with default values.
func NewDevelopmentConfig() *Config {
	return &Config{
		DBPath:             "/tmp/mergekv",
		MetricAddr:         ":10086",
		MaxBufferedRecords: 1024,
		LogicalKeys:        64,
		Records:            100000,
	}
}
