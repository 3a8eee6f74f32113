package domain

// Algorithm represents the cryptographic algorithm used for storage encryption.
//
// Both supported algorithms provide Authenticated Encryption with Associated Data
// (AEAD) with a 256-bit key, a 96-bit nonce, and a 128-bit authentication tag,
// so ciphertext columns produced by either are interchangeable in shape.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	// Preferred on CPUs with AES-NI hardware acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	// Constant-time in software, preferred on platforms without AES acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the symmetric key size in bytes (256 bits).
	KeySize = 32

	// NonceSize is the AEAD nonce size in bytes (96 bits).
	// Nonces are freshly random per encryption, never derived or counter-based.
	NonceSize = 12

	// TagSize is the AEAD authentication tag size in bytes (128 bits).
	TagSize = 16

	// MinRSAKeyBits is the minimum accepted RSA modulus size. 2048 bits leaves
	// ample room for a 32-byte symmetric key under OAEP-SHA256 padding.
	MinRSAKeyBits = 2048
)
