package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
	cryptoService "github.com/allisson/dmvault/internal/crypto/service"
	cryptoUseCase "github.com/allisson/dmvault/internal/crypto/usecase"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = c.initKMSService()
	})
	return c.kmsService
}

// MasterSecret returns the master secret loaded from MASTER_SECRET or, when
// set, from MASTER_SECRET_CIPHERTEXT through the KMS.
func (c *Container) MasterSecret() (*cryptoDomain.MasterSecret, error) {
	var err error
	c.masterSecretInit.Do(func() {
		c.masterSecret, err = c.initMasterSecret()
		if err != nil {
			c.initErrors["masterSecret"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterSecret"]; exists {
		return nil, storedErr
	}
	return c.masterSecret, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = c.initAEADManager()
	})
	return c.aeadManager
}

// BlobSealer returns the sealer protecting the user directory and the
// conversation key mapping.
func (c *Container) BlobSealer() (cryptoService.BlobSealer, error) {
	var err error
	c.blobSealerInit.Do(func() {
		c.blobSealer, err = c.initBlobSealer()
		if err != nil {
			c.initErrors["blobSealer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blobSealer"]; exists {
		return nil, storedErr
	}
	return c.blobSealer, nil
}

// RecoveryPolicy returns the policy applied to the conversation key store and
// the message log when they cannot be opened.
func (c *Container) RecoveryPolicy() (cryptoDomain.RecoveryPolicy, error) {
	var err error
	c.recoveryPolicyInit.Do(func() {
		c.recoveryPolicy, err = cryptoDomain.ParseRecoveryPolicy(c.config.CorruptStorePolicy)
		if err != nil {
			c.initErrors["recoveryPolicy"] = err
		}
	})
	if err != nil {
		return "", err
	}
	if storedErr, exists := c.initErrors["recoveryPolicy"]; exists {
		return "", storedErr
	}
	return c.recoveryPolicy, nil
}

// ConversationKeyUseCase returns the conversation key store.
func (c *Container) ConversationKeyUseCase() (cryptoUseCase.ConversationKeyUseCase, error) {
	var err error
	c.conversationKeyUseCaseInit.Do(func() {
		c.conversationKeyUseCase, err = c.initConversationKeyUseCase()
		if err != nil {
			c.initErrors["conversationKeyUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["conversationKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.conversationKeyUseCase, nil
}

// initKMSService creates the KMS service for decrypting the master secret.
func (c *Container) initKMSService() cryptoService.KMSService {
	return cryptoService.NewKMSService()
}

// initMasterSecret loads the master secret with KMS support and fail-fast validation.
func (c *Container) initMasterSecret() (*cryptoDomain.MasterSecret, error) {
	masterSecret, err := cryptoService.LoadMasterSecret(
		context.Background(),
		c.KMSService(),
		cryptoService.MasterSecretSource{
			Plain:      c.config.MasterSecret,
			Ciphertext: c.config.MasterSecretCiphertext,
			KMSKeyURI:  c.config.KMSKeyURI,
		},
		c.Logger(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load master secret: %w", err)
	}
	return masterSecret, nil
}

// initAEADManager creates the AEAD manager service.
func (c *Container) initAEADManager() cryptoService.AEADManager {
	return cryptoService.NewAEADManager()
}

// initBlobSealer binds a MasterSealer to the master secret.
func (c *Container) initBlobSealer() (cryptoService.BlobSealer, error) {
	masterSecret, err := c.MasterSecret()
	if err != nil {
		return nil, err
	}

	return cryptoService.NewMasterSealer(
		masterSecret,
		cryptoService.NewPBKDF2KeyDeriver(),
		c.AEADManager(),
	), nil
}

// initConversationKeyUseCase creates the conversation key store.
func (c *Container) initConversationKeyUseCase() (cryptoUseCase.ConversationKeyUseCase, error) {
	repo, err := c.BlobRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob repository for conversation key use case: %w", err)
	}

	sealer, err := c.BlobSealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob sealer for conversation key use case: %w", err)
	}

	policy, err := c.RecoveryPolicy()
	if err != nil {
		return nil, err
	}

	baseUseCase := cryptoUseCase.NewConversationKeyUseCase(repo, sealer, policy, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for conversation key use case: %w", err)
		}
		return cryptoUseCase.NewConversationKeyUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
