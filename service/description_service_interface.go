package service

import "context"

// DescriptionServiceInterface defines the contract for asking a multimodal model to describe a garment
type DescriptionServiceInterface interface {
	// Describe sends the JPEG image with the garment prompts and returns the model's raw text.
	// A response without candidates yields models.TextNotFound, not an error.
	Describe(ctx context.Context, jpegImage []byte) (string, error)
}

// DescriptionInstruction is sent ahead of the field prompts
const DescriptionInstruction = "Describe the garment in the image and provide the following details:"

// DescriptionPrompts returns the instruction followed by one "<Label>:" prompt per extracted field
func DescriptionPrompts() []string {
	return []string{
		DescriptionInstruction,
		"Garment Type:",
		"Brand:",
		"Size:",
		"Color:",
		"Fabric:",
		"Additional Characteristics:",
	}
}
