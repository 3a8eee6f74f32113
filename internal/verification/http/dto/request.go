// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	customValidation "github.com/idshield/verification/internal/validation"
)

// IngressRequest is the wire form of a client-sealed envelope. Every field is
// base64-encoded.
type IngressRequest struct {
	EncryptedData         string `json:"encrypted_data"`
	EncryptedSymmetricKey string `json:"encrypted_symmetric_key"`
	Nonce                 string `json:"nonce"`
	AuthTag               string `json:"auth_tag"`
}

// Validate checks if the ingress request is valid.
func (r *IngressRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EncryptedData,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
		validation.Field(&r.EncryptedSymmetricKey,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
		validation.Field(&r.Nonce,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
		validation.Field(&r.AuthTag,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}

// ToEnvelope decodes the base64 wire fields into an encrypted envelope.
// Call Validate first; decoding assumes the fields are valid base64.
func (r *IngressRequest) ToEnvelope() (*cryptoDomain.EncryptedEnvelope, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(r.EncryptedData)
	if err != nil {
		return nil, cryptoDomain.ErrMalformedInput
	}
	wrappedKey, err := base64.StdEncoding.DecodeString(r.EncryptedSymmetricKey)
	if err != nil {
		return nil, cryptoDomain.ErrMalformedInput
	}
	nonce, err := base64.StdEncoding.DecodeString(r.Nonce)
	if err != nil {
		return nil, cryptoDomain.ErrMalformedInput
	}
	authTag, err := base64.StdEncoding.DecodeString(r.AuthTag)
	if err != nil {
		return nil, cryptoDomain.ErrMalformedInput
	}

	return &cryptoDomain.EncryptedEnvelope{
		Ciphertext: ciphertext,
		WrappedKey: wrappedKey,
		Nonce:      nonce,
		AuthTag:    authTag,
	}, nil
}

// SearchRequest contains the parameters for searching a verification record.
type SearchRequest struct {
	NationalID string `json:"national_id"`
}

// Validate checks if the search request is valid.
func (r *SearchRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.NationalID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 64),
		),
	)
}
