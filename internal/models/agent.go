package models

// Agent is the inspection view of an AI tutor configuration.
type Agent struct {
	AgentName    string  `db:"agent_name" json:"agentName"`
	Temperature  float64 `db:"temperature" json:"temperature"`
	MaxTokens    int     `db:"max_tokens" json:"maxTokens"`
	PromptLength int     `db:"prompt_length" json:"promptLength"`
	SystemPrompt string  `db:"system_prompt" json:"systemPrompt"`
}
