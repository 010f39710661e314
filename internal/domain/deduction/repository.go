package deduction

import "context"

// PolicyStore is the read-side interface to deduction policy configuration.
type PolicyStore interface {
	// Get returns the organization's policy for the given type, or
	// (nil, nil) when none is configured. An unconfigured policy is a
	// fallback condition, not an error.
	Get(ctx context.Context, orgID string, policyType PolicyType) (*Policy, error)
}
