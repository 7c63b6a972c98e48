//go:build windows

package flock

import "golang.org/x/sys/windows"

// The lock covers the first byte of the file, which is enough for an
// advisory lock shared by rcli processes.
func lockRange(fd uintptr) (windows.Handle, uint32, uint32, uint32, *windows.Overlapped) {
	return windows.Handle(fd), 0, 1, 0, &windows.Overlapped{}
}

// Exclusive takes an exclusive lock without waiting.
func Exclusive(fd uintptr) error {
	h, reserved, low, high, ol := lockRange(fd)
	return windows.LockFileEx(h, windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY, reserved, low, high, ol)
}

// Unlock releases a lock taken by Exclusive.
func Unlock(fd uintptr) error {
	h, reserved, low, high, ol := lockRange(fd)
	return windows.UnlockFileEx(h, reserved, low, high, ol)
}
