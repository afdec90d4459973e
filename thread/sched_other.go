//go:build !linux

package thread

import "errors"

// ErrUnsupported is returned when thread configuration isn't available.
var ErrUnsupported = errors.New("thread: affinity and priority are only supported on linux")

// Configure applies cfg to the calling OS thread.
func Configure(cfg Config) error {
	if cfg.CPU >= 0 || cfg.Priority > 0 {
		return ErrUnsupported
	}
	return nil
}
