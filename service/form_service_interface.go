package service

import (
	"context"

	"github.com/saatgomi1/secondsense/models"
)

// FormServiceInterface defines the contract for the per-session correction form
type FormServiceInterface interface {
	Start(ctx context.Context, images [][]byte) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	Prompts(session *models.Session) []models.FieldPrompt
	Stage(ctx context.Context, id string, inputs map[string]string) (*models.Session, error)
	AddField(ctx context.Context, id string, name string, value string) (*models.Session, error)
	Confirm(ctx context.Context, id string, inputs map[string]string) (*models.Session, error)
}
