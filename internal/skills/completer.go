package skills

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Completer is the text-generation contract skills depend on.
// Implementations are injected at construction so tests can
// substitute a stub.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type agentCompleter struct {
	cfg gaconfig.AgentConfig
}

// NewAgentCompleter returns a Completer backed by a go-agents chat agent.
// A fresh agent is created per call; the config is treated as immutable.
func NewAgentCompleter(cfg gaconfig.AgentConfig) Completer {
	return &agentCompleter{cfg: cfg}
}

func (c *agentCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	a, err := agent.New(&c.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat call: %w", err)
	}

	return resp.Text(), nil
}
