package app

import (
	"fmt"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	verificationHTTP "github.com/idshield/verification/internal/verification/http"
	verificationRepository "github.com/idshield/verification/internal/verification/repository"
	verificationUsecase "github.com/idshield/verification/internal/verification/usecase"
)

// RecordRepository returns the verification record repository instance.
func (c *Container) RecordRepository() (verificationUsecase.RecordRepository, error) {
	var err error
	c.recordRepoInit.Do(func() {
		c.recordRepo, err = c.initRecordRepository()
		if err != nil {
			c.initErrors["recordRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordRepo"]; exists {
		return nil, storedErr
	}
	return c.recordRepo, nil
}

// VerificationUseCase returns the verification use case instance.
func (c *Container) VerificationUseCase() (verificationUsecase.VerificationUseCase, error) {
	var err error
	c.verificationUseCaseInit.Do(func() {
		c.verificationUseCase, err = c.initVerificationUseCase()
		if err != nil {
			c.initErrors["verificationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["verificationUseCase"]; exists {
		return nil, storedErr
	}
	return c.verificationUseCase, nil
}

// VerificationHandler returns the verification HTTP handler instance.
func (c *Container) VerificationHandler() (*verificationHTTP.VerificationHandler, error) {
	var err error
	c.verificationHandlerInit.Do(func() {
		c.verificationHandler, err = c.initVerificationHandler()
		if err != nil {
			c.initErrors["verificationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["verificationHandler"]; exists {
		return nil, storedErr
	}
	return c.verificationHandler, nil
}

// initRecordRepository creates the record repository based on the database driver.
func (c *Container) initRecordRepository() (verificationUsecase.RecordRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for record repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return verificationRepository.NewPostgreSQLRecordRepository(db), nil
	case "mysql":
		return verificationRepository.NewMySQLRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVerificationUseCase creates the verification use case with all its dependencies.
func (c *Container) initVerificationUseCase() (verificationUsecase.VerificationUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for verification use case: %w", err)
	}

	recordRepo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for verification use case: %w", err)
	}

	envelopeService, err := c.EnvelopeService()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope service for verification use case: %w", err)
	}

	blindIndexer, err := c.BlindIndexer()
	if err != nil {
		return nil, fmt.Errorf("failed to get blind indexer for verification use case: %w", err)
	}

	keyring, err := c.Keyring()
	if err != nil {
		return nil, fmt.Errorf("failed to get keyring for verification use case: %w", err)
	}

	useCase := verificationUsecase.NewVerificationUseCase(
		txManager,
		recordRepo,
		envelopeService,
		c.AEADManager(),
		blindIndexer,
		keyring,
		cryptoDomain.Algorithm(c.config.EncryptionAlgorithm),
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for verification use case: %w", err)
	}

	return verificationUsecase.NewVerificationUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initVerificationHandler creates the verification HTTP handler.
func (c *Container) initVerificationHandler() (*verificationHTTP.VerificationHandler, error) {
	useCase, err := c.VerificationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get verification use case for handler: %w", err)
	}

	return verificationHTTP.NewVerificationHandler(useCase, c.Logger()), nil
}
