package di

import (
	"github.com/ignitionstack/fnctl/internal/cache"
	"github.com/ignitionstack/fnctl/internal/config"
	"github.com/ignitionstack/fnctl/internal/repository"
	"github.com/ignitionstack/fnctl/internal/services"
	"github.com/ignitionstack/fnctl/pkg/apiclient"
	"github.com/ignitionstack/fnctl/pkg/logging"
	"go.uber.org/dig"
)

// Container manages dependency injection for the CLI
type Container struct {
	*dig.Container
	closers []func() error
}

// BuildContainer registers every service fnctl needs. The notifier decides
// how run outcomes are shown.
func BuildContainer(cfg *config.Config, logger logging.Logger, notifier services.Notifier) (*Container, error) {
	c := &Container{Container: dig.New()}

	if err := c.Provide(func() *config.Config {
		return cfg
	}); err != nil {
		return nil, err
	}

	if err := c.Provide(func() logging.Logger {
		return logger
	}); err != nil {
		return nil, err
	}

	if err := c.Provide(func() services.Notifier {
		return notifier
	}); err != nil {
		return nil, err
	}

	if err := c.Provide(func(cfg *config.Config, logger logging.Logger) (apiclient.Client, error) {
		return apiclient.New(apiclient.Options{
			BaseURL: cfg.API.BaseURL,
			Logger:  logger,
		})
	}); err != nil {
		return nil, err
	}

	// A cache that cannot be opened (for example while another fnctl holds
	// the lock) degrades to no caching.
	if err := c.Provide(func(cfg *config.Config, logger logging.Logger) cache.Store {
		if !cfg.Cache.Enabled {
			return cache.NopStore{}
		}
		dbRepo, err := repository.OpenBadgerDBRepository(cfg.Cache.Dir)
		if err != nil {
			logger.Debugf("Snapshot cache disabled: %v", err)
			return cache.NopStore{}
		}
		c.closers = append(c.closers, dbRepo.Close)
		return cache.NewStore(dbRepo)
	}); err != nil {
		return nil, err
	}

	if err := c.Provide(services.NewRegistryClient); err != nil {
		return nil, err
	}

	if err := c.Provide(services.NewExecutionTrigger); err != nil {
		return nil, err
	}

	if err := c.Provide(services.NewDashboardController); err != nil {
		return nil, err
	}

	return c, nil
}

// Close releases resources opened while resolving services
func (c *Container) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}

// GetRegistryClient retrieves the RegistryClient from the container.
func (c *Container) GetRegistryClient() (*services.RegistryClient, error) {
	var registry *services.RegistryClient
	if err := c.Invoke(func(r *services.RegistryClient) {
		registry = r
	}); err != nil {
		return nil, err
	}
	return registry, nil
}

// GetExecutionTrigger retrieves the ExecutionTrigger from the container.
func (c *Container) GetExecutionTrigger() (*services.ExecutionTrigger, error) {
	var trigger *services.ExecutionTrigger
	if err := c.Invoke(func(t *services.ExecutionTrigger) {
		trigger = t
	}); err != nil {
		return nil, err
	}
	return trigger, nil
}

// GetDashboardController retrieves the DashboardController from the container.
func (c *Container) GetDashboardController() (*services.DashboardController, error) {
	var dashboard *services.DashboardController
	if err := c.Invoke(func(d *services.DashboardController) {
		dashboard = d
	}); err != nil {
		return nil, err
	}
	return dashboard, nil
}
