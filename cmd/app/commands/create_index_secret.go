package commands

import (
	"context"
	"io"

	cryptoService "github.com/idshield/verification/internal/crypto/service"
)

// RunCreateIndexSecret generates a cryptographically secure 32-byte secret
// for blind index token derivation. Changing this secret invalidates all
// stored index tokens, so rotate it only together with a full re-index.
//
// When kmsProvider and kmsKeyURI are both set, the secret is encrypted with
// KMS before output and the server decrypts it at startup.
func RunCreateIndexSecret(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	out io.Writer,
	kmsProvider string,
	kmsKeyURI string,
) error {
	return generateSecretMaterial(ctx, kmsService, out, "INDEX_SECRET", kmsProvider, kmsKeyURI)
}
