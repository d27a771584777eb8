package service

import "errors"

var (
	// ErrNoImages is returned when an upload batch contains no images
	ErrNoImages = errors.New("no images provided")
	// ErrInvalidImage is returned when an uploaded file cannot be decoded
	ErrInvalidImage = errors.New("invalid image")
	// ErrDescriptionService is returned when the model call fails
	ErrDescriptionService = errors.New("description service failed")
	// ErrUnknownField is returned for manual inputs that name no field
	ErrUnknownField = errors.New("unknown field")
	// ErrFieldNotEditable is returned for manual inputs targeting a resolved field
	ErrFieldNotEditable = errors.New("field is not editable")
	// ErrAlreadyConfirmed is returned when editing a confirmed session
	ErrAlreadyConfirmed = errors.New("session already confirmed")
	// ErrNotConfirmed is returned when an operation needs a confirmed session
	ErrNotConfirmed = errors.New("session not confirmed")
	// ErrUnsupportedFormat is returned for unknown export formats
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrArchiveDisabled is returned when Drive archiving is not configured
	ErrArchiveDisabled = errors.New("drive archive is not configured")
)

var (
	// ErrInvalidFieldName is returned when a user-added field has no usable name
	ErrInvalidFieldName = errors.New("invalid field name")
	// ErrDuplicateField is returned when a user-added field collides with an existing one
	ErrDuplicateField = errors.New("field already exists")
)
