// Package explain answers "what is this condition" questions from a
// curated knowledge base, with an optional LLM behind it for conditions
// the base does not cover.
package explain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/medreserve/predict/internal/domain"
)

const (
	sourceDatabase = "database"
	sourceGeneric  = "generic"
	sourceAI       = "ai"

	systemPrompt = "You are a medical information assistant. Explain the given " +
		"condition for a patient in plain language: what it is, common symptoms, " +
		"and general self-care guidance. Keep it under 150 words and remind the " +
		"reader to consult a healthcare professional."
)

// ChatClient is the slice of the OpenAI client the service uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Service struct {
	chat   ChatClient
	model  string
	logger *zap.Logger
}

// New creates the explainer. chat may be nil, in which case AI-backed
// explanations report domain.ErrExplainUnavailable.
func New(chat ChatClient, model string, logger *zap.Logger) *Service {
	return &Service{chat: chat, model: model, logger: logger}
}

// Explain looks the condition up in the knowledge base, falling back to a
// fuzzy name match and finally to generic guidance. With detailed set,
// unknown conditions are explained by the LLM instead of the generic
// text.
func (s *Service) Explain(ctx context.Context, condition string, detailed bool) (*Info, error) {
	name := strings.ToLower(strings.TrimSpace(condition))
	if name == "" {
		return nil, fmt.Errorf("%w: condition is required", domain.ErrValidation)
	}

	if info, ok := lookup(name); ok {
		info.Source = sourceDatabase
		return &info, nil
	}

	if detailed {
		return s.explainWithAI(ctx, condition)
	}

	info := genericInfo
	info.Source = sourceGeneric
	return &info, nil
}

func lookup(name string) (Info, bool) {
	if info, ok := conditions[name]; ok {
		return info, true
	}
	for key, info := range conditions {
		if strings.Contains(key, name) || strings.Contains(name, key) {
			return info, true
		}
		if strings.Contains(strings.ToLower(info.Name), name) {
			return info, true
		}
	}
	return Info{}, false
}

func (s *Service) explainWithAI(ctx context.Context, condition string) (*Info, error) {
	if s.chat == nil {
		return nil, domain.ErrExplainUnavailable
	}

	resp, err := s.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: condition},
		},
	})
	if err != nil {
		s.logger.Warn("condition explanation request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %s", domain.ErrExplainUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrExplainUnavailable)
	}

	info := genericInfo
	info.Name = strings.TrimSpace(condition)
	info.Explanation = strings.TrimSpace(resp.Choices[0].Message.Content)
	info.Description = "AI-generated explanation, verify with a healthcare professional."
	info.Source = sourceAI
	return &info, nil
}

// Available lists the condition names in the knowledge base, sorted.
func (s *Service) Available() []string {
	names := make([]string, 0, len(conditions))
	for _, info := range conditions {
		names = append(names, info.Name)
	}
	sort.Strings(names)
	return names
}

// Search matches a term against names, descriptions, and symptoms.
func (s *Service) Search(term string) []Info {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}

	var out []Info
	for _, info := range conditions {
		if matches(info, needle) {
			info.Source = sourceDatabase
			out = append(out, info)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func matches(info Info, needle string) bool {
	if strings.Contains(strings.ToLower(info.Name), needle) ||
		strings.Contains(strings.ToLower(info.Description), needle) {
		return true
	}
	for _, s := range info.Symptoms {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}
