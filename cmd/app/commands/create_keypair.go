package commands

import (
	"fmt"
	"io"
	"os"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	cryptoService "github.com/idshield/verification/internal/crypto/service"
)

// RunCreateKeypair generates an RSA key pair for envelope key wrapping.
// The private key stays with the server; the public key is distributed to
// clients so they can seal envelopes.
//
// When outPath is set, the private key is written to that file with 0600
// permissions and only the PRIVATE_KEY_PATH variable is printed. Otherwise
// the PEM-encoded private key is printed for manual handling.
func RunCreateKeypair(out io.Writer, bits int, outPath string) error {
	if bits < cryptoDomain.MinRSAKeyBits {
		return fmt.Errorf("key size must be at least %d bits, got %d", cryptoDomain.MinRSAKeyBits, bits)
	}

	keyBox := cryptoService.NewKeyBox()
	privateKey, err := keyBox.GenerateKeyPair(bits)
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}

	privateKeyPEM, err := cryptoDomain.EncodePrivateKeyPEM(privateKey)
	if err != nil {
		return fmt.Errorf("failed to encode private key: %w", err)
	}

	publicKeyPEM, err := cryptoDomain.EncodePublicKeyPEM(&privateKey.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to encode public key: %w", err)
	}

	fmt.Fprintf(out, "# RSA Key Pair (%d bits)\n", bits)
	fmt.Fprintln(out)

	if outPath != "" {
		if err := os.WriteFile(outPath, privateKeyPEM, 0o600); err != nil {
			return fmt.Errorf("failed to write private key file: %w", err)
		}
		fmt.Fprintf(out, "# Private key written to %s\n", outPath)
		fmt.Fprintf(out, "PRIVATE_KEY_PATH=%q\n", outPath)
	} else {
		fmt.Fprintln(out, "# Private key (keep secret, set as PRIVATE_KEY or store in a file):")
		fmt.Fprintln(out, string(privateKeyPEM))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "# Public key (distribute to sealing clients):")
	fmt.Fprintln(out, string(publicKeyPEM))

	return nil
}
