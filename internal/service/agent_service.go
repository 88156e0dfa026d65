package service

import (
	"context"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	appErrors "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/errors"
)

type agentReader interface {
	ListAdvisors(ctx context.Context) ([]models.Agent, error)
}

// AgentService exposes the advisor agent configurations.
type AgentService struct {
	repo agentReader
}

// NewAgentService constructs an AgentService.
func NewAgentService(repo agentReader) *AgentService {
	return &AgentService{repo: repo}
}

// ListAdvisors returns the Hawkeinstein and student-advisor agents.
func (s *AgentService) ListAdvisors(ctx context.Context) ([]models.Agent, error) {
	agents, err := s.repo.ListAdvisors(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list agents")
	}
	return agents, nil
}
