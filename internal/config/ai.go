package config

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Generation builds the question/answer set for an interview (quality over speed)
	Generation string `json:"generation" yaml:"generation"`

	// Evaluation rates a single spoken answer (needs to be fast)
	Evaluation string `json:"evaluation" yaml:"evaluation"`
}

// SafetySetting is one category→threshold pair sent with every request
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-" yaml:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl" yaml:"base_url"`
	Models    GeminiModels `json:"models" yaml:"models"`
	TimeoutMS int          `json:"timeoutMs" yaml:"timeout_ms"`

	// QuestionCount is how many questions the generation prompt asks for.
	// The count is advisory: responses with a different count are accepted.
	QuestionCount int `json:"questionCount" yaml:"question_count"`

	// GenerationAttempts bounds interview generation calls; 1 disables retries
	GenerationAttempts int `json:"generationAttempts" yaml:"generation_attempts"`

	SafetySettings []SafetySetting `json:"safetySettings" yaml:"-"`
}

// DefaultSafetySettings is the fixed list sent identically on every call
func DefaultSafetySettings() []SafetySetting {
	return []SafetySetting{
		{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	}
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() AIConfig {
	return AIConfig{
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			Generation: "gemini-2.5-flash",
			Evaluation: "gemini-2.5-flash",
		},
		TimeoutMS:          30000,
		QuestionCount:      5,
		GenerationAttempts: 1,
		SafetySettings:     DefaultSafetySettings(),
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
