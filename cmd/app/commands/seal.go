package commands

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	cryptoService "github.com/idshield/verification/internal/crypto/service"
	verificationDomain "github.com/idshield/verification/internal/verification/domain"
	"github.com/idshield/verification/internal/verification/http/dto"
)

// RunSeal seals a payload for submission to the ingress endpoint. It is a
// client-side utility: it reads the payload JSON, validates it, seals it in
// a hybrid envelope under the given public key, and prints the request body
// for POST /v1/ingress.
//
// The payload is read from payloadPath when set, otherwise from the reader.
func RunSeal(ioTuple IOTuple, publicKeyPath, payloadPath, algorithm string) error {
	if publicKeyPath == "" {
		return fmt.Errorf("--public-key is required")
	}

	publicKeyPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read public key file: %w", err)
	}

	publicKey, err := cryptoDomain.ParsePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}

	var payloadBytes []byte
	if payloadPath != "" {
		payloadBytes, err = os.ReadFile(payloadPath)
		if err != nil {
			return fmt.Errorf("failed to read payload file: %w", err)
		}
	} else {
		payloadBytes, err = io.ReadAll(ioTuple.Reader)
		if err != nil {
			return fmt.Errorf("failed to read payload: %w", err)
		}
	}

	// Validate client-side so malformed payloads fail before submission
	payload, err := verificationDomain.ParsePayload(payloadBytes)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	canonical, err := payload.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	defer cryptoDomain.Zero(canonical)

	envelopeService, err := cryptoService.NewEnvelopeService(
		cryptoService.NewAEADManager(),
		cryptoService.NewKeyBox(),
		cryptoDomain.Algorithm(algorithm),
	)
	if err != nil {
		return fmt.Errorf("failed to create envelope service: %w", err)
	}

	envelope, err := envelopeService.Seal(canonical, publicKey)
	if err != nil {
		return fmt.Errorf("failed to seal payload: %w", err)
	}

	request := dto.IngressRequest{
		EncryptedData:         base64.StdEncoding.EncodeToString(envelope.Ciphertext),
		EncryptedSymmetricKey: base64.StdEncoding.EncodeToString(envelope.WrappedKey),
		Nonce:                 base64.StdEncoding.EncodeToString(envelope.Nonce),
		AuthTag:               base64.StdEncoding.EncodeToString(envelope.AuthTag),
	}

	body, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	fmt.Fprintln(ioTuple.Writer, string(body))
	return nil
}
