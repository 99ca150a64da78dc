// internal/pipeline/queryplanner/config.go
package queryplanner

type Config struct {
	MaxQueries int
}

func LoadConfig() *Config {
	return &Config{
		MaxQueries: 20,
	}
}
