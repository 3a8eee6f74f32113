package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	cryptoService "github.com/idshield/verification/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// KeyBox returns the RSA key wrapping service.
func (c *Container) KeyBox() *cryptoService.KeyBox {
	c.keyBoxInit.Do(func() {
		c.keyBox = cryptoService.NewKeyBox()
	})
	return c.keyBox
}

// Keyring returns the keyring loaded from configuration.
func (c *Container) Keyring() (*cryptoDomain.Keyring, error) {
	var err error
	c.keyringInit.Do(func() {
		c.keyring, err = c.initKeyring()
		if err != nil {
			c.initErrors["keyring"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyring"]; exists {
		return nil, storedErr
	}
	return c.keyring, nil
}

// EnvelopeService returns the hybrid envelope service.
func (c *Container) EnvelopeService() (cryptoService.Envelope, error) {
	var err error
	c.envelopeServiceInit.Do(func() {
		c.envelopeService, err = c.initEnvelopeService()
		if err != nil {
			c.initErrors["envelopeService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeService"]; exists {
		return nil, storedErr
	}
	return c.envelopeService, nil
}

// BlindIndexer returns the blind index service.
func (c *Container) BlindIndexer() (*cryptoService.BlindIndexer, error) {
	var err error
	c.blindIndexerInit.Do(func() {
		c.blindIndexer, err = c.initBlindIndexer()
		if err != nil {
			c.initErrors["blindIndexer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blindIndexer"]; exists {
		return nil, storedErr
	}
	return c.blindIndexer, nil
}

// initKeyring loads the private key, storage key, and index secret from
// configuration. When a KMS provider is configured, each value is treated
// as a KMS-encrypted ciphertext and decrypted before use.
func (c *Container) initKeyring() (*cryptoDomain.Keyring, error) {
	privateKeyPEM, err := c.loadPrivateKeyPEM()
	if err != nil {
		return nil, err
	}

	if c.config.StorageKey == "" {
		return nil, fmt.Errorf("STORAGE_KEY is not set")
	}
	storageKey, err := base64.StdEncoding.DecodeString(c.config.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode storage key: %w", err)
	}

	if c.config.IndexSecret == "" {
		return nil, fmt.Errorf("INDEX_SECRET is not set")
	}
	indexSecret, err := base64.StdEncoding.DecodeString(c.config.IndexSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode index secret: %w", err)
	}

	if c.kmsConfigured() {
		keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() { _ = keeper.Close() }()

		privateKeyPEM, err = keeper.Decrypt(context.Background(), privateKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt private key with KMS: %w", err)
		}
		storageKey, err = keeper.Decrypt(context.Background(), storageKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt storage key with KMS: %w", err)
		}
		indexSecret, err = keeper.Decrypt(context.Background(), indexSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt index secret with KMS: %w", err)
		}
	}

	privateKey, err := cryptoDomain.ParsePrivateKeyPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	keyring, err := cryptoDomain.NewKeyring(privateKey, storageKey, indexSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyring: %w", err)
	}

	c.Logger().Info("keyring loaded",
		slog.Bool("kms_enabled", c.kmsConfigured()),
		slog.String("algorithm", c.config.EncryptionAlgorithm))

	return keyring, nil
}

// loadPrivateKeyPEM reads the private key material from PRIVATE_KEY or
// PRIVATE_KEY_PATH. When a KMS provider is configured, the value is
// expected to be base64-encoded ciphertext.
func (c *Container) loadPrivateKeyPEM() ([]byte, error) {
	if c.config.PrivateKey != "" {
		if c.kmsConfigured() {
			decoded, err := base64.StdEncoding.DecodeString(c.config.PrivateKey)
			if err != nil {
				return nil, fmt.Errorf("failed to decode private key: %w", err)
			}
			return decoded, nil
		}
		return []byte(c.config.PrivateKey), nil
	}

	if c.config.PrivateKeyPath != "" {
		data, err := os.ReadFile(c.config.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key file: %w", err)
		}
		if c.kmsConfigured() {
			decoded, err := base64.StdEncoding.DecodeString(string(data))
			if err != nil {
				return nil, fmt.Errorf("failed to decode private key file: %w", err)
			}
			return decoded, nil
		}
		return data, nil
	}

	return nil, fmt.Errorf("PRIVATE_KEY or PRIVATE_KEY_PATH must be set")
}

// kmsConfigured reports whether a KMS provider is fully configured.
func (c *Container) kmsConfigured() bool {
	return c.config.KMSProvider != "" && c.config.KMSKeyURI != ""
}

// initEnvelopeService creates the envelope service with the configured algorithm.
func (c *Container) initEnvelopeService() (cryptoService.Envelope, error) {
	algorithm := cryptoDomain.Algorithm(c.config.EncryptionAlgorithm)

	envelopeService, err := cryptoService.NewEnvelopeService(c.AEADManager(), c.KeyBox(), algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope service: %w", err)
	}
	return envelopeService, nil
}

// initBlindIndexer creates the blind indexer using the keyring index secret.
func (c *Container) initBlindIndexer() (*cryptoService.BlindIndexer, error) {
	keyring, err := c.Keyring()
	if err != nil {
		return nil, fmt.Errorf("failed to get keyring for blind indexer: %w", err)
	}

	blindIndexer, err := cryptoService.NewBlindIndexer(keyring.IndexSecret(), cryptoService.NormalizeTrim)
	if err != nil {
		return nil, fmt.Errorf("failed to create blind indexer: %w", err)
	}
	return blindIndexer, nil
}
