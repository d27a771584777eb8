package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saatgomi1/secondsense/models"
	"github.com/saatgomi1/secondsense/repository"
	"github.com/saatgomi1/secondsense/utils"
)

// FormService runs the upload pipeline and holds manual corrections per session
// Implements FormServiceInterface
type FormService struct {
	compositor *ImageCompositor
	describer  DescriptionServiceInterface
	repository repository.SessionRepositoryInterface
	now        func() time.Time
	// mu serialises read-modify-write cycles so an edit set is applied whole
	mu sync.Mutex
}

// NewFormService creates a new FormService
func NewFormService(compositor *ImageCompositor, describer DescriptionServiceInterface, repo repository.SessionRepositoryInterface) *FormService {
	return &FormService{
		compositor: compositor,
		describer:  describer,
		repository: repo,
		now:        time.Now,
	}
}

// Ensure FormService implements FormServiceInterface
var _ FormServiceInterface = (*FormService)(nil)

// Start composes the uploaded images, asks the model to describe them, extracts
// the garment fields and stores a new session. Nothing is stored on failure.
func (s *FormService) Start(ctx context.Context, images [][]byte) (*models.Session, error) {
	log.Printf("📥 Processing upload batch of %d images", len(images))

	composite, err := s.compositor.ComposeJPEG(images)
	if err != nil {
		log.Printf("❌ Failed to compose images: %v", err)
		return nil, err
	}

	text, err := s.describer.Describe(ctx, composite)
	if err != nil {
		log.Printf("❌ Description request failed: %v", err)
		if !errors.Is(err, ErrDescriptionService) {
			err = fmt.Errorf("%w: %v", ErrDescriptionService, err)
		}
		return nil, err
	}
	log.Printf("📝 Model response:\n%s", text)

	details := utils.ExtractGarmentDetails(text)
	record := models.NewGarmentRecord(details, composite, text)
	session := models.NewSession(uuid.NewString(), record, s.now())

	if err := s.repository.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Printf("✅ Session %s created (%d fields need manual input)", session.ID, len(record.MissingFields()))
	return session, nil
}

// Get returns the session with the given id
func (s *FormService) Get(ctx context.Context, id string) (*models.Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrSessionNotFound
	}
	return s.repository.Get(ctx, id)
}

// Delete drops a session; the user restarts with a new upload
func (s *FormService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrSessionNotFound
	}
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("🗑️  Session %s deleted", id)
	return nil
}

// Prompts returns one empty input per unresolved field followed by the
// Garment Quality input. Confirmed sessions have no prompts.
func (s *FormService) Prompts(session *models.Session) []models.FieldPrompt {
	if session == nil || session.Record == nil || session.Confirmed {
		return nil
	}

	missing := session.Record.MissingFields()
	prompts := make([]models.FieldPrompt, 0, len(missing)+1)
	for _, field := range missing {
		key := models.FieldKey(field)
		prompts = append(prompts, models.FieldPrompt{
			Key:   key,
			Field: field,
			Label: "Input " + field,
			Value: session.Pending[key],
		})
	}

	qualityKey := models.FieldKey(models.FieldGarmentQuality)
	prompts = append(prompts, models.FieldPrompt{
		Key:   qualityKey,
		Field: models.FieldGarmentQuality,
		Label: models.FieldGarmentQuality,
		Value: session.Pending[qualityKey],
	})
	return prompts
}

// Stage records manual inputs without applying them to the record
func (s *FormService) Stage(ctx context.Context, id string, inputs map[string]string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.editableSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := resolveInputs(session.Record, inputs); err != nil {
		return nil, err
	}

	for key, value := range inputs {
		session.Pending[key] = value
	}
	session.UpdatedAt = s.now()

	if err := s.repository.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// AddField appends a user-defined export column
func (s *FormService) AddField(ctx context.Context, id string, name string, value string) (*models.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidFieldName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.editableSession(ctx, id)
	if err != nil {
		return nil, err
	}
	key := models.FieldKey(name)
	for _, column := range session.Record.DisplayRow() {
		if models.FieldKey(column.Name) == key {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, name)
		}
	}

	session.Record.ExtraFields = append(session.Record.ExtraFields, models.ExtraField{
		Name:  name,
		Value: strings.TrimSpace(value),
	})
	session.UpdatedAt = s.now()

	if err := s.repository.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	log.Printf("➕ Field %q added to session %s", name, id)
	return session, nil
}

// Confirm merges inputs over the staged ones and applies the whole set to the
// record in one save. Blank inputs leave unresolved fields at "N/A".
// After confirmation the record is read-only.
func (s *FormService) Confirm(ctx context.Context, id string, inputs map[string]string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.editableSession(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]string, len(session.Pending)+len(inputs))
	for key, value := range session.Pending {
		merged[key] = value
	}
	for key, value := range inputs {
		merged[key] = value
	}

	fields, err := resolveInputs(session.Record, merged)
	if err != nil {
		return nil, err
	}

	record := session.Record.Clone()
	for key, field := range fields {
		value := strings.TrimSpace(merged[key])
		if value == "" && field != models.FieldGarmentQuality {
			continue
		}
		if err := record.SetField(field, value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
	}

	session.Record = record
	session.Pending = map[string]string{}
	session.Confirmed = true
	session.UpdatedAt = s.now()

	if err := s.repository.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	log.Printf("✅ Session %s confirmed", id)
	return session, nil
}

func (s *FormService) editableSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Confirmed {
		return nil, ErrAlreadyConfirmed
	}
	if session.Pending == nil {
		session.Pending = map[string]string{}
	}
	return session, nil
}

// resolveInputs maps input keys to field names, rejecting unknown keys and
// keys of fields that were already resolved by extraction
func resolveInputs(record *models.GarmentRecord, inputs map[string]string) (map[string]string, error) {
	editable := map[string]string{
		models.FieldKey(models.FieldGarmentQuality): models.FieldGarmentQuality,
	}
	for _, field := range record.MissingFields() {
		editable[models.FieldKey(field)] = field
	}
	for _, extra := range record.ExtraFields {
		editable[models.FieldKey(extra.Name)] = extra.Name
	}

	known := make(map[string]bool, len(models.ExtractedFields))
	for _, field := range models.ExtractedFields {
		known[models.FieldKey(field)] = true
	}

	fields := make(map[string]string, len(inputs))
	for key := range inputs {
		field, ok := editable[key]
		if !ok {
			if known[key] {
				return nil, fmt.Errorf("%w: %s", ErrFieldNotEditable, key)
			}
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		fields[key] = field
	}
	return fields, nil
}
