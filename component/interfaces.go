package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of a host application, such as the
// named-client factory.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information for startup logs.
type Description struct {
	// Name is the human-readable display name. Empty means Name().
	Name string
	// Type categorizes the component, e.g. "http-client".
	Type string
	// Details is a one-liner such as "3 clients lifetime=2m0s".
	Details string
}

// Describable is optionally implemented by Components that report what they
// are and how they are configured.
type Describable interface {
	Describe() Description
}
