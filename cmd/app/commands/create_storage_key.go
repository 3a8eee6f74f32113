package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	cryptoService "github.com/idshield/verification/internal/crypto/service"
)

// RunCreateStorageKey generates a cryptographically secure 32-byte key for
// column encryption at rest. Key material is zeroed from memory after encoding.
//
// When kmsProvider and kmsKeyURI are both set, the key is encrypted with KMS
// before output and the server decrypts it at startup. For local development,
// use kmsProvider="localsecrets" with kmsKeyURI="base64key://...".
func RunCreateStorageKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	out io.Writer,
	kmsProvider string,
	kmsKeyURI string,
) error {
	return generateSecretMaterial(ctx, kmsService, out, "STORAGE_KEY", kmsProvider, kmsKeyURI)
}

// generateSecretMaterial generates a 32-byte secret, optionally encrypts it
// with KMS, and prints it as an environment variable assignment.
func generateSecretMaterial(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	out io.Writer,
	envName string,
	kmsProvider string,
	kmsKeyURI string,
) error {
	secret := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}
	defer cryptoDomain.Zero(secret)

	output := secret

	useKMS := kmsProvider != "" && kmsKeyURI != ""
	if useKMS {
		keeperInterface, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() {
			if closeErr := keeperInterface.Close(); closeErr != nil {
				fmt.Fprintf(out, "# Warning: failed to close KMS keeper: %v\n", closeErr)
			}
		}()

		keeper, ok := keeperInterface.(interface {
			Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
		})
		if !ok {
			return fmt.Errorf("KMS keeper does not support encryption")
		}

		ciphertext, err := keeper.Encrypt(ctx, secret)
		if err != nil {
			return fmt.Errorf("failed to encrypt secret with KMS: %w", err)
		}
		output = ciphertext
	}

	encoded := base64.StdEncoding.EncodeToString(output)

	fmt.Fprintf(out, "# %s Configuration\n", envName)
	fmt.Fprintln(out, "# Copy this environment variable to your .env file or secrets manager")
	if useKMS {
		fmt.Fprintln(out, "# KMS Mode: value is encrypted, the server decrypts it at startup")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "KMS_PROVIDER=%q\n", kmsProvider)
		fmt.Fprintf(out, "KMS_KEY_URI=%q\n", kmsKeyURI)
	} else {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%s=%q\n", envName, encoded)

	return nil
}
