package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/strategicsync/strategic-sync/backend/internal/config"
	advisormodel "github.com/strategicsync/strategic-sync/backend/internal/model/advisor"
	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
)

// Service encapsulates the generation collaborator: a prompt chain over the
// configured chat model.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates a new generation service instance.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// StreamingEnabled indicates whether streamed output is configured.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// GenerateAdvice produces a complete response for one exchange.
func (s *Service) GenerateAdvice(ctx context.Context, ident identity.Identity, history []advisormodel.Turn, query string) (*schema.Message, error) {
	input := s.buildChainInput(ident, history, query)

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run advice chain: %w", err)
	}

	log.Printf("[ai] generated advice for identity=%s, length=%d", ident.ID, len(response.Content))
	return response, nil
}

// StreamAdvice streams response fragments via the configured chain.
func (s *Service) StreamAdvice(ctx context.Context, ident identity.Identity, history []advisormodel.Turn, query string) (*TokenStream, error) {
	input := s.buildChainInput(ident, history, query)

	stream, err := s.chain.Stream(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to stream advice chain output: %w", err)
	}

	return &TokenStream{inner: stream}, nil
}

// TokenStream adapts the chain's message stream to plain text fragments.
type TokenStream struct {
	inner *schema.StreamReader[*schema.Message]
}

// Recv returns the next text fragment, or io.EOF at stream end.
func (s *TokenStream) Recv() (string, error) {
	chunk, err := s.inner.Recv()
	if err != nil {
		return "", err
	}
	if chunk == nil {
		return "", nil
	}
	return chunk.Content, nil
}

// Close releases the underlying stream.
func (s *TokenStream) Close() {
	s.inner.Close()
}

func (s *Service) buildChainInput(ident identity.Identity, history []advisormodel.Turn, query string) map[string]any {
	return map[string]any{
		"system":  BuildSystemPrompt(ident),
		"history": buildHistoryMessages(history),
		"query":   query,
	}
}

// buildHistoryMessages maps the transcript tail to the collaborator's role
// vocabulary. Pending and errored turns carry no usable context and are
// skipped.
func buildHistoryMessages(history []advisormodel.Turn) []*schema.Message {
	const historyLimit = 10

	if len(history) == 0 {
		return nil
	}

	startIdx := 0
	if len(history) > historyLimit {
		startIdx = len(history) - historyLimit
	}

	messages := make([]*schema.Message, 0, len(history)-startIdx)
	for _, turn := range history[startIdx:] {
		if turn.State != advisormodel.StateFinal {
			continue
		}
		switch turn.Role {
		case advisormodel.RoleHuman:
			messages = append(messages, schema.UserMessage(turn.Content))
		case advisormodel.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}

	return messages
}
