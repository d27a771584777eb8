package controller

import (
	"fmt"
	"log"
	"net/http"

	"github.com/saatgomi1/secondsense/service"
)

// ExportController handles HTTP requests for downloads, the confirmation view and archiving
type ExportController struct {
	formService   service.FormServiceInterface
	exportService *service.ExportService
	sheetService  *service.SheetService
}

// NewExportController creates a new ExportController
func NewExportController(formService service.FormServiceInterface, exportService *service.ExportService, sheetService *service.SheetService) *ExportController {
	return &ExportController{
		formService:   formService,
		exportService: exportService,
		sheetService:  sheetService,
	}
}

// Export handles GET /sessions/:id/export?format=xlsx|csv
func (c *ExportController) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := c.formService.Get(r.Context(), sessionIDFromPath(r))
	if err != nil {
		writeError(w, "Failed to get session", err)
		return
	}

	file, err := c.exportService.Export(session.Record, r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, "Failed to export session", err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// Confirmation handles GET /sessions/:id/confirmation
// Read-only view of a confirmed record with the composite image
func (c *ExportController) Confirmation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := c.formService.Get(r.Context(), sessionIDFromPath(r))
	if err != nil {
		writeError(w, "Failed to get session", err)
		return
	}

	html, err := c.sheetService.RenderHTML(session)
	if err != nil {
		writeError(w, "Failed to render confirmation", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

// ConfirmationPDF handles GET /sessions/:id/confirmation.pdf
func (c *ExportController) ConfirmationPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := c.formService.Get(r.Context(), sessionIDFromPath(r))
	if err != nil {
		writeError(w, "Failed to get session", err)
		return
	}
	if !session.Confirmed {
		writeError(w, "Failed to generate PDF", service.ErrNotConfirmed)
		return
	}

	log.Printf("📄 Generating confirmation PDF for session %s", session.ID)
	pdf, err := c.sheetService.GeneratePDF(r.Context(), session.ID)
	if err != nil {
		writeError(w, "Failed to generate PDF", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="garment_confirmation.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// Archive handles POST /sessions/:id/archive
// Uploads the spreadsheet and composite image of a confirmed session to Drive
func (c *ExportController) Archive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := c.formService.Get(r.Context(), sessionIDFromPath(r))
	if err != nil {
		writeError(w, "Failed to get session", err)
		return
	}

	ids, err := c.exportService.Archive(r.Context(), session)
	if err != nil {
		writeError(w, "Failed to archive session", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"fileIds": ids,
	})
}
