package schema

// Settings holds the agent loop tuning values resolved from configuration.
type Settings struct {
	Model             string
	MaxToolIterations int
	Temperature       float64
	MaxTokens         int
}

func NewSettings(model string, maxToolIterations int, temperature float64, maxTokens int) Settings {
	return Settings{
		Model:             model,
		MaxToolIterations: maxToolIterations,
		Temperature:       temperature,
		MaxTokens:         maxTokens,
	}
}
