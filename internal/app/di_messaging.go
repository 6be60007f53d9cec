package app

import (
	"fmt"

	messagingHTTP "github.com/allisson/dmvault/internal/messaging/http"
	messagingUseCase "github.com/allisson/dmvault/internal/messaging/usecase"
)

// MessageUseCase returns the message store.
func (c *Container) MessageUseCase() (messagingUseCase.MessageUseCase, error) {
	var err error
	c.messageUseCaseInit.Do(func() {
		c.messageUseCase, err = c.initMessageUseCase()
		if err != nil {
			c.initErrors["messageUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["messageUseCase"]; exists {
		return nil, storedErr
	}
	return c.messageUseCase, nil
}

// MessageHandler returns the HTTP handler for contacts and messages.
func (c *Container) MessageHandler() (*messagingHTTP.MessageHandler, error) {
	var err error
	c.messageHandlerInit.Do(func() {
		c.messageHandler, err = c.initMessageHandler()
		if err != nil {
			c.initErrors["messageHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["messageHandler"]; exists {
		return nil, storedErr
	}
	return c.messageHandler, nil
}

// initMessageUseCase creates the message store with all its dependencies.
func (c *Container) initMessageUseCase() (messagingUseCase.MessageUseCase, error) {
	repo, err := c.BlobRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob repository for message use case: %w", err)
	}

	keys, err := c.ConversationKeyUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation key use case for message use case: %w", err)
	}

	policy, err := c.RecoveryPolicy()
	if err != nil {
		return nil, err
	}

	baseUseCase := messagingUseCase.NewMessageUseCase(repo, keys, c.AEADManager(), policy, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for message use case: %w", err)
		}
		return messagingUseCase.NewMessageUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initMessageHandler creates the message HTTP handler.
func (c *Container) initMessageHandler() (*messagingHTTP.MessageHandler, error) {
	messages, err := c.MessageUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get message use case for message handler: %w", err)
	}

	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for message handler: %w", err)
	}

	return messagingHTTP.NewMessageHandler(messages, users, c.Logger()), nil
}
