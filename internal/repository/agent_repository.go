package repository

import (
	"context"
	"fmt"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/database"
)

// AgentRepository reads AI tutor configurations.
type AgentRepository struct {
	db *database.Client
}

// NewAgentRepository constructs an AgentRepository.
func NewAgentRepository(db *database.Client) *AgentRepository {
	return &AgentRepository{db: db}
}

// ListAdvisors returns the Hawkeinstein agents and every agent flagged as a student advisor.
func (r *AgentRepository) ListAdvisors(ctx context.Context) ([]models.Agent, error) {
	const query = `SELECT agent_name, temperature, max_tokens, LENGTH(system_prompt) AS prompt_length, system_prompt
		FROM agents WHERE agent_name LIKE '%Hawkeinstein%' OR is_student_advisor = TRUE`
	agents := make([]models.Agent, 0)
	if err := r.db.Select(ctx, &agents, query); err != nil {
		return nil, fmt.Errorf("list advisor agents: %w", err)
	}
	return agents, nil
}
