package art

import "github.com/pkg/errors"

// ErrNotFound is returned by Get and Delete when the key has no leaf in the
// tree. It is a normal outcome, not a fault.
var ErrNotFound = errors.New("art: key not found")

// ErrAllocationFailure is returned when the allocator could not create a new
// node or leaf. No observable tree state is mutated when this is returned:
// Insert is atomic — either the tree grew by one and Len reflects it, or the
// tree is exactly as it was before the call.
var ErrAllocationFailure = errors.New("art: allocation failure")

// wrapAllocErr annotates an allocation failure with the operation that
// triggered it, without losing errors.Is(err, ErrAllocationFailure).
func wrapAllocErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "art: %s", op)
}
