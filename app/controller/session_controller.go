package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/saatgomi1/secondsense/models"
	"github.com/saatgomi1/secondsense/service"
)

// UploadField is the multipart field holding the garment photos
const UploadField = "images"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// SessionController handles HTTP requests for the upload and correction form
type SessionController struct {
	formService    service.FormServiceInterface
	maxUploadBytes int64
}

// NewSessionController creates a new SessionController
func NewSessionController(formService service.FormServiceInterface, maxUploadBytes int64) *SessionController {
	return &SessionController{
		formService:    formService,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateSession handles POST /sessions
// Accepts multipart "images" (jpg, jpeg, png), runs the extraction pipeline and returns the new session
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes)
	if err := r.ParseMultipartForm(c.maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("Invalid upload: %v", err), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File[UploadField]
	if len(files) == 0 {
		http.Error(w, fmt.Sprintf("No images received, check that the field is named '%s'", UploadField), http.StatusBadRequest)
		return
	}

	images := make([][]byte, 0, len(files))
	for _, header := range files {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedExtensions[ext] {
			http.Error(w, fmt.Sprintf("Unsupported file type %q (allowed: jpg, jpeg, png)", header.Filename), http.StatusBadRequest)
			return
		}
		data, err := readUpload(header)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to read %s: %v", header.Filename, err), http.StatusBadRequest)
			return
		}
		images = append(images, data)
	}

	log.Printf("📥 Upload received: %d images", len(images))
	session, err := c.formService.Start(r.Context(), images)
	if err != nil {
		writeError(w, "Failed to process images", err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionView(session, c.formService.Prompts(session)))
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// GetSession handles GET /sessions/:id
func (c *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := c.formService.Get(r.Context(), sessionIDFromPath(r))
	if err != nil {
		writeError(w, "Failed to get session", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session, c.formService.Prompts(session)))
}

// DeleteSession handles DELETE /sessions/:id
// Dropping the session is how a user restarts the flow
func (c *SessionController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := c.formService.Delete(r.Context(), sessionIDFromPath(r)); err != nil {
		writeError(w, "Failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StageInputs handles PUT /sessions/:id/inputs
// Body: {"brand": "Nike", "garment_quality": "Good"}; values are held until confirmation
func (c *SessionController) StageInputs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	inputs, ok := decodeInputs(w, r)
	if !ok {
		return
	}

	session, err := c.formService.Stage(r.Context(), sessionIDFromPath(r), inputs)
	if err != nil {
		writeError(w, "Failed to stage inputs", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session, c.formService.Prompts(session)))
}

// AddField handles POST /sessions/:id/fields
// Body: {"name": "Price", "value": "12 EUR"}
func (c *SessionController) AddField(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.AddFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	session, err := c.formService.AddField(r.Context(), sessionIDFromPath(r), req.Name, req.Value)
	if err != nil {
		writeError(w, "Failed to add field", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session, c.formService.Prompts(session)))
}

// Confirm handles POST /sessions/:id/confirm
// Applies staged inputs plus any inputs in the body in one step; an empty body confirms the staged set
func (c *SessionController) Confirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	inputs, ok := decodeInputs(w, r)
	if !ok {
		return
	}

	session, err := c.formService.Confirm(r.Context(), sessionIDFromPath(r), inputs)
	if err != nil {
		writeError(w, "Failed to confirm session", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session, nil))
}

// GetImage handles GET /sessions/:id/image?size=thumb|medium|full
func (c *SessionController) GetImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := c.formService.Get(r.Context(), sessionIDFromPath(r))
	if err != nil {
		writeError(w, "Failed to get session", err)
		return
	}

	data, err := service.OptimizeImage(session.Record.CompositeImage, r.URL.Query().Get("size"))
	if err != nil {
		writeError(w, "Failed to render image", err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// decodeInputs reads an optional JSON object of manual inputs
func decodeInputs(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	inputs := map[string]string{}
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil && err != io.EOF {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return nil, false
	}
	return inputs, true
}
