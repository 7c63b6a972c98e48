// Package flock provides cross-platform advisory file locks.
//
// Exclusive and Unlock are the non-blocking primitives. Acquire wraps them
// with a retry loop bounded by a timeout and the caller's context:
//
//	lock, err := flock.Acquire(ctx, filepath.Join(dir, ".lock"), 5*time.Second)
//	if err != nil {
//	    return err // errors.ErrLockTimeout when another process holds it
//	}
//	defer lock.Release()
package flock
