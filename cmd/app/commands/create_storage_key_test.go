package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	cryptoService "github.com/idshield/verification/internal/crypto/service"
)

// Manual mocks for KMS since they might not be generated in all environments
type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (cryptoService.KMSKeeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoService.KMSKeeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}

// extractEnvValue pulls the quoted value of an env assignment out of command output.
func extractEnvValue(t *testing.T, output, envName string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, envName+"=") {
			return strings.Trim(strings.TrimPrefix(line, envName+"="), "\"")
		}
	}
	t.Fatalf("output does not contain %s assignment", envName)
	return ""
}

func TestRunCreateStorageKey(t *testing.T) {
	ctx := context.Background()

	t.Run("plain-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateStorageKey(ctx, nil, &out, "", "")
		require.NoError(t, err)

		value := extractEnvValue(t, out.String(), "STORAGE_KEY")
		decoded, err := base64.StdEncoding.DecodeString(value)
		require.NoError(t, err)
		require.Len(t, decoded, cryptoDomain.KeySize)
	})

	t.Run("kms-output", func(t *testing.T) {
		mockService := &MockKMSService{}
		mockKeeper := &MockKMSKeeper{}

		mockService.On("OpenKeeper", ctx, "base64key://...").Return(mockKeeper, nil)
		mockKeeper.On("Encrypt", ctx, mock.AnythingOfType("[]uint8")).Return([]byte("encrypted"), nil)
		mockKeeper.On("Close").Return(nil)

		var out bytes.Buffer
		err := RunCreateStorageKey(ctx, mockService, &out, "localsecrets", "base64key://...")
		require.NoError(t, err)

		require.Contains(t, out.String(), "KMS_PROVIDER=\"localsecrets\"")
		value := extractEnvValue(t, out.String(), "STORAGE_KEY")
		require.Equal(t, base64.StdEncoding.EncodeToString([]byte("encrypted")), value)

		mockService.AssertExpectations(t)
		mockKeeper.AssertExpectations(t)
	})
}

func TestRunCreateIndexSecret(t *testing.T) {
	ctx := context.Background()

	t.Run("plain-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateIndexSecret(ctx, nil, &out, "", "")
		require.NoError(t, err)

		value := extractEnvValue(t, out.String(), "INDEX_SECRET")
		decoded, err := base64.StdEncoding.DecodeString(value)
		require.NoError(t, err)
		require.Len(t, decoded, cryptoDomain.KeySize)
	})

	t.Run("distinct-values", func(t *testing.T) {
		var first, second bytes.Buffer
		require.NoError(t, RunCreateIndexSecret(ctx, nil, &first, "", ""))
		require.NoError(t, RunCreateIndexSecret(ctx, nil, &second, "", ""))

		require.NotEqual(
			t,
			extractEnvValue(t, first.String(), "INDEX_SECRET"),
			extractEnvValue(t, second.String(), "INDEX_SECRET"),
		)
	})
}
