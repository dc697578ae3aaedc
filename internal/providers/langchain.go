package providers

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/jonathan/match-engine/internal/types"
)

// analysisSystemPrompt steers chat-style providers toward strict JSON output.
const analysisSystemPrompt = "You are a resume screening assistant. " +
	"Respond with a single JSON object and nothing else."

// LangChainProvider adapts any langchaingo chat model to the Provider
// interface. OpenAI and Anthropic are constructed through it.
type LangChainProvider struct {
	name  string
	model llms.Model
}

// NewOpenAIProvider creates an OpenAI-backed provider.
func NewOpenAIProvider(apiKey, model string) (*LangChainProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key required")
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}
	return &LangChainProvider{name: "openai", model: llm}, nil
}

// NewAnthropicProvider creates an Anthropic-backed provider.
func NewAnthropicProvider(apiKey, model string) (*LangChainProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key required")
	}
	llm, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create anthropic model: %w", err)
	}
	return &LangChainProvider{name: "anthropic", model: llm}, nil
}

// Name identifies the provider for health tracking and logs.
func (p *LangChainProvider) Name() string {
	return p.name
}

// Analyze runs one resume-vs-job analysis call.
func (p *LangChainProvider) Analyze(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile) (*types.RawProviderResult, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, analysisSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildAnalysisPrompt(resume, job)),
	}

	response, err := p.model.GenerateContent(ctx, messages, llms.WithTemperature(0.1))
	if err != nil {
		return nil, NewProviderError(p.name, classifyCallError(err), err)
	}
	if len(response.Choices) == 0 {
		return nil, NewProviderError(p.name, KindMalformedResponse, fmt.Errorf("no response choices"))
	}

	return NormalizeResponse(p.name, response.Choices[0].Content)
}
