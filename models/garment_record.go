package models

import (
	"fmt"
	"strings"
)

// NotAvailable marks a field the extractor could not resolve
const NotAvailable = "N/A"

// TextNotFound is the raw text used when the model returns no candidate
const TextNotFound = "Text not found"

// Canonical field names, in export order
const (
	FieldGarmentType               = "Garment Type"
	FieldBrand                     = "Brand"
	FieldSize                      = "Size"
	FieldColor                     = "Color"
	FieldFabric                    = "Fabric"
	FieldAdditionalCharacteristics = "Additional Characteristics"
	FieldGarmentQuality            = "Garment Quality"
)

// ExtractedFields lists the six fields the extractor produces, in order
var ExtractedFields = []string{
	FieldGarmentType,
	FieldBrand,
	FieldSize,
	FieldColor,
	FieldFabric,
	FieldAdditionalCharacteristics,
}

// FieldKey converts a field name to its manual-input key
// Example: "Garment Type" -> "garment_type"
func FieldKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// GarmentDetails holds the six values produced by the field extractor
type GarmentDetails struct {
	GarmentType               string `json:"garmentType"`
	Brand                     string `json:"brand"`
	Size                      string `json:"size"`
	Color                     string `json:"color"`
	Fabric                    string `json:"fabric"`
	AdditionalCharacteristics string `json:"additionalCharacteristics"`
}

// Values returns the details in ExtractedFields order
func (d GarmentDetails) Values() []string {
	return []string{d.GarmentType, d.Brand, d.Size, d.Color, d.Fabric, d.AdditionalCharacteristics}
}

// ExtraField is a user-added export column
type ExtraField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Column is one (name, value) cell of the exported row
type Column struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// GarmentRecord represents one submission batch
// CompositeImage and RawText are kept internally and never exported
type GarmentRecord struct {
	GarmentDetails
	GarmentQuality string       `json:"garmentQuality"`
	ExtraFields    []ExtraField `json:"extraFields,omitempty"`
	CompositeImage []byte       `json:"-"`
	RawText        string       `json:"-"`
}

// NewGarmentRecord creates a record from extracted details
func NewGarmentRecord(details GarmentDetails, compositeImage []byte, rawText string) *GarmentRecord {
	return &GarmentRecord{
		GarmentDetails: details,
		CompositeImage: compositeImage,
		RawText:        rawText,
	}
}

func (r *GarmentRecord) fieldRef(name string) *string {
	switch name {
	case FieldGarmentType:
		return &r.GarmentType
	case FieldBrand:
		return &r.Brand
	case FieldSize:
		return &r.Size
	case FieldColor:
		return &r.Color
	case FieldFabric:
		return &r.Fabric
	case FieldAdditionalCharacteristics:
		return &r.AdditionalCharacteristics
	case FieldGarmentQuality:
		return &r.GarmentQuality
	}
	for i := range r.ExtraFields {
		if r.ExtraFields[i].Name == name {
			return &r.ExtraFields[i].Value
		}
	}
	return nil
}

// Field returns the value of a named field and whether the field exists
func (r *GarmentRecord) Field(name string) (string, bool) {
	ref := r.fieldRef(name)
	if ref == nil {
		return "", false
	}
	return *ref, true
}

// SetField sets the value of a named field
func (r *GarmentRecord) SetField(name, value string) error {
	ref := r.fieldRef(name)
	if ref == nil {
		return fmt.Errorf("unknown field %q", name)
	}
	*ref = value
	return nil
}

// MissingFields returns the extracted fields still holding the N/A sentinel
func (r *GarmentRecord) MissingFields() []string {
	var missing []string
	for i, value := range r.Values() {
		if value == NotAvailable {
			missing = append(missing, ExtractedFields[i])
		}
	}
	return missing
}

// DisplayRow returns the exported columns: the six extracted fields,
// Garment Quality, then any user-added fields
func (r *GarmentRecord) DisplayRow() []Column {
	values := r.Values()
	row := make([]Column, 0, len(values)+1+len(r.ExtraFields))
	for i, value := range values {
		row = append(row, Column{Name: ExtractedFields[i], Value: value})
	}
	row = append(row, Column{Name: FieldGarmentQuality, Value: r.GarmentQuality})
	for _, extra := range r.ExtraFields {
		row = append(row, Column{Name: extra.Name, Value: extra.Value})
	}
	return row
}

// Clone returns a deep copy of the record
func (r *GarmentRecord) Clone() *GarmentRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.ExtraFields != nil {
		out.ExtraFields = append([]ExtraField(nil), r.ExtraFields...)
	}
	if r.CompositeImage != nil {
		out.CompositeImage = append([]byte(nil), r.CompositeImage...)
	}
	return &out
}
