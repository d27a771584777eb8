package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/saatgomi1/secondsense/models"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultOllamaURL is the local Ollama server address
	DefaultOllamaURL = "http://localhost:11434"
	// DefaultOllamaModel is a vision-capable model
	DefaultOllamaModel = "llava"
)

// OllamaService describes garments with a local vision model served by Ollama
// Implements DescriptionServiceInterface
type OllamaService struct {
	baseURL string
	model   string
	http    *resty.Client
}

// Ensure OllamaService implements DescriptionServiceInterface
var _ DescriptionServiceInterface = (*OllamaService)(nil)

// NewOllamaService creates an OllamaService; a zero timeout means no client timeout
func NewOllamaService(baseURL, model string, timeout time.Duration) *OllamaService {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &OllamaService{baseURL: strings.TrimRight(baseURL, "/"), model: model, http: c}
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Describe posts one non-streaming /api/chat request with the image attached
func (s *OllamaService) Describe(ctx context.Context, jpegImage []byte) (string, error) {
	body := ollamaChatRequest{
		Model: s.model,
		Messages: []ollamaMessage{{
			Role:    "user",
			Content: strings.Join(DescriptionPrompts(), "\n"),
			Images:  []string{base64.StdEncoding.EncodeToString(jpegImage)},
		}},
		Stream: false,
	}

	log.Printf("🤖 Requesting garment description from ollama model %s (%d bytes image)", s.model, len(jpegImage))
	var resp ollamaChatResponse
	rr, err := s.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(s.baseURL + "/api/chat")
	if err != nil {
		return "", fmt.Errorf("%w: ollama chat: %v", ErrDescriptionService, err)
	}
	if rr.IsError() {
		return "", fmt.Errorf("%w: ollama chat: %s; body: %s", ErrDescriptionService, rr.Status(), rr.String())
	}

	if strings.TrimSpace(resp.Message.Content) == "" {
		log.Printf("⚠️  Ollama returned an empty message")
		return models.TextNotFound, nil
	}
	return resp.Message.Content, nil
}
