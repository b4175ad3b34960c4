package authgate

import "errors"

var (
	// ErrProviderRequired is returned by Build when no identity provider
	// was supplied; the gateway cannot operate without one.
	ErrProviderRequired = errors.New("identity provider is required")
	// ErrBuilderReused is returned when Build is called twice on the same
	// builder.
	ErrBuilderReused = errors.New("builder already used")
)
