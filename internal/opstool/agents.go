package opstool

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
)

// AgentLister returns the advisor agents.
type AgentLister interface {
	ListAdvisors(ctx context.Context) ([]models.Agent, error)
}

// PrintAgents writes every advisor agent configuration to out.
func PrintAgents(ctx context.Context, agents AgentLister, out io.Writer) error {
	list, err := agents.ListAdvisors(ctx)
	if err != nil {
		return err
	}
	for _, agent := range list {
		fmt.Fprintf(out, "Agent: %s\n", agent.AgentName)
		fmt.Fprintf(out, "Temperature: %s\n", strconv.FormatFloat(agent.Temperature, 'f', -1, 64))
		fmt.Fprintf(out, "Max Tokens: %d\n", agent.MaxTokens)
		fmt.Fprintf(out, "Prompt Length: %d chars\n", agent.PromptLength)
		fmt.Fprintf(out, "System Prompt:\n%s\n", agent.SystemPrompt)
		fmt.Fprintln(out, strings.Repeat("-", ruleWidth))
	}
	return nil
}
