package usecase

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	cryptoService "github.com/idshield/verification/internal/crypto/service"
	"github.com/idshield/verification/internal/verification/domain"
)

// fakeTxManager runs the function directly without a real transaction.
type fakeTxManager struct{}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRecordRepo is an in-memory RecordRepository keyed by index token.
type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[string]*domain.Record
	order   []*domain.Record
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]*domain.Record)}
}

func (f *fakeRecordRepo) Create(ctx context.Context, record *domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[record.IndexToken]; ok {
		return domain.ErrRecordExists
	}
	f.records[record.IndexToken] = record
	f.order = append(f.order, record)
	return nil
}

func (f *fakeRecordRepo) GetByIndexToken(ctx context.Context, indexToken string) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[indexToken]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return record, nil
}

func (f *fakeRecordRepo) List(ctx context.Context, offset, limit int) ([]*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offset >= len(f.order) {
		return make([]*domain.Record, 0), nil
	}
	end := offset + limit
	if end > len(f.order) {
		end = len(f.order)
	}
	return f.order[offset:end], nil
}

// testEnv bundles everything a usecase test needs to seal envelopes and
// inspect stored records.
type testEnv struct {
	useCase    VerificationUseCase
	repo       *fakeRecordRepo
	keyring    *cryptoDomain.Keyring
	envelope   *cryptoService.EnvelopeService
	privateKey *rsa.PrivateKey
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, cryptoDomain.MinRSAKeyBits)
	require.NoError(t, err)

	storageKey := make([]byte, cryptoDomain.KeySize)
	_, err = rand.Read(storageKey)
	require.NoError(t, err)

	keyring, err := cryptoDomain.NewKeyring(privateKey, storageKey, []byte("test-index-secret"))
	require.NoError(t, err)

	aeadManager := cryptoService.NewAEADManager()
	envelope, err := cryptoService.NewEnvelopeService(
		aeadManager,
		cryptoService.NewKeyBox(),
		cryptoDomain.AESGCM,
	)
	require.NoError(t, err)

	blindIndexer, err := cryptoService.NewBlindIndexer(keyring.IndexSecret(), nil)
	require.NoError(t, err)

	repo := newFakeRecordRepo()
	useCase := NewVerificationUseCase(
		&fakeTxManager{},
		repo,
		envelope,
		aeadManager,
		blindIndexer,
		keyring,
		cryptoDomain.AESGCM,
	)

	return &testEnv{
		useCase:    useCase,
		repo:       repo,
		keyring:    keyring,
		envelope:   envelope,
		privateKey: privateKey,
	}
}

// sealPayload produces a client-side envelope for the given payload JSON.
func (e *testEnv) sealPayload(t *testing.T, payloadJSON string) *cryptoDomain.EncryptedEnvelope {
	t.Helper()
	envelope, err := e.envelope.Seal([]byte(payloadJSON), &e.privateKey.PublicKey)
	require.NoError(t, err)
	return envelope
}
