package booking

import "context"

// AvailabilityInvalidator drops a doctor's cached open-slot list after
// any slot mutation. Implemented by the Redis availability cache.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, doctorID uint)
}
