package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/saatgomi1/secondsense/models"
)

// DefaultExportFormat is used when no format is requested
const DefaultExportFormat = "xlsx"

// ExportFile is a rendered export ready to download or upload
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportService turns a garment record into spreadsheet files and archives them
type ExportService struct {
	exporters     map[string]Exporter
	driveService  DriveServiceInterface
	driveFolderID string
}

// NewExportService creates an ExportService with the xlsx and csv exporters.
// driveService may be nil; archiving is then disabled.
func NewExportService(driveService DriveServiceInterface, driveFolderID string) *ExportService {
	s := &ExportService{
		exporters:     map[string]Exporter{},
		driveService:  driveService,
		driveFolderID: driveFolderID,
	}
	s.Register(XLSXExporter{})
	s.Register(CSVExporter{})
	return s
}

// Register adds or replaces an exporter for its format
func (s *ExportService) Register(e Exporter) {
	s.exporters[strings.ToLower(e.Format())] = e
}

// Formats lists the registered export formats
func (s *ExportService) Formats() []string {
	formats := make([]string, 0, len(s.exporters))
	for format := range s.exporters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Export renders the record's display row in the requested format
func (s *ExportService) Export(record *models.GarmentRecord, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = DefaultExportFormat
	}
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	data, err := exporter.Export(record.DisplayRow())
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Name:        exporter.FileName(),
		ContentType: exporter.ContentType(),
		Data:        data,
	}, nil
}

// Archive uploads the confirmed record's spreadsheet and composite image to Drive.
// Returns the created Drive file ids.
func (s *ExportService) Archive(ctx context.Context, session *models.Session) ([]string, error) {
	if s.driveService == nil || s.driveFolderID == "" {
		return nil, ErrArchiveDisabled
	}
	if !session.Confirmed {
		return nil, ErrNotConfirmed
	}

	sheet, err := s.Export(session.Record, DefaultExportFormat)
	if err != nil {
		return nil, err
	}

	prefix := "garment_" + session.ID
	uploads := []ExportFile{
		{Name: prefix + "_" + sheet.Name, ContentType: sheet.ContentType, Data: sheet.Data},
		{Name: prefix + ".jpg", ContentType: "image/jpeg", Data: session.Record.CompositeImage},
	}

	ids := make([]string, 0, len(uploads))
	for _, file := range uploads {
		id, err := s.driveService.UploadFile(ctx, s.driveFolderID, file.Name, file.ContentType, file.Data)
		if err != nil {
			log.Printf("❌ Failed to upload %s to Drive: %v", file.Name, err)
			return ids, err
		}
		ids = append(ids, id)
	}

	log.Printf("☁️  Session %s archived to Drive folder %s", session.ID, s.driveFolderID)
	return ids, nil
}
