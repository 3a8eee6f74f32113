package domain

import (
	"encoding/json"

	validation "github.com/jellydator/validation"

	customValidation "github.com/idshield/verification/internal/validation"
)

// Payload is the decrypted content of an ingress envelope. NationalID and Name
// are required; AdditionalData carries any extra fields the client submitted
// and is stored encrypted as part of the full payload column.
type Payload struct {
	NationalID     string         `json:"national_id"`
	Name           string         `json:"name"`
	AdditionalData map[string]any `json:"additional_data,omitempty"`
}

// Validate checks if the payload carries the required identity fields.
func (p *Payload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.NationalID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 64),
		),
		validation.Field(&p.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// ParsePayload decodes and validates a decrypted payload.
func ParsePayload(plaintext []byte) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, ErrMalformedPayload
	}
	if err := payload.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}
	return &payload, nil
}

// Marshal encodes the payload back to its canonical JSON form for storage in
// the full-payload encrypted column.
func (p *Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}
