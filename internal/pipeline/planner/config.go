// internal/pipeline/planner/config.go
package planner

type Config struct {
	// MaxPromptPOIs caps how many ranked POIs are written into the
	// synthesis prompt to bound prompt size.
	MaxPromptPOIs int
}

func LoadConfig() *Config {
	return &Config{
		MaxPromptPOIs: 30,
	}
}
