// internal/pipeline/researcher/config.go
package researcher

type Config struct {
	MaxConcurrency  int
	ResultsPerQuery int
}

func LoadConfig() *Config {
	return &Config{
		MaxConcurrency:  6,
		ResultsPerQuery: 5,
	}
}
