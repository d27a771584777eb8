package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/saatgomi1/secondsense/models"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "models/gemini-1.5-flash"

// GeminiService describes garments with the Google Generative Language API
// Implements DescriptionServiceInterface
type GeminiService struct {
	client  *generativelanguage.Service
	model   string
	timeout time.Duration
}

// Ensure GeminiService implements DescriptionServiceInterface
var _ DescriptionServiceInterface = (*GeminiService)(nil)

// NewGeminiService creates a GeminiService authenticated with an API key.
// Extra client options (endpoint, HTTP client) are appended after the key.
// A zero timeout leaves the call bounded only by the caller's context.
func NewGeminiService(ctx context.Context, apiKey, model string, timeout time.Duration, opts ...option.ClientOption) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := generativelanguage.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create generative language service: %w", err)
	}

	return &GeminiService{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Describe sends one generateContent request with the prompts and the inline JPEG
func (s *GeminiService) Describe(ctx context.Context, jpegImage []byte) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompts := DescriptionPrompts()
	parts := make([]*generativelanguage.Part, 0, len(prompts)+1)
	for _, prompt := range prompts {
		parts = append(parts, &generativelanguage.Part{Text: prompt})
	}
	parts = append(parts, &generativelanguage.Part{
		InlineData: &generativelanguage.Blob{
			Data:     base64.StdEncoding.EncodeToString(jpegImage),
			MimeType: "image/jpeg",
		},
	})

	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{Role: "user", Parts: parts}},
	}

	log.Printf("🤖 Requesting garment description from %s (%d bytes image)", s.model, len(jpegImage))
	resp, err := s.client.Models.GenerateContent(s.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content: %v", ErrDescriptionService, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		log.Printf("⚠️  Gemini returned no candidates")
		return models.TextNotFound, nil
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		log.Printf("⚠️  Gemini candidate has no content parts (finish reason: %s)", candidate.FinishReason)
		return models.TextNotFound, nil
	}
	return candidate.Content.Parts[0].Text, nil
}
