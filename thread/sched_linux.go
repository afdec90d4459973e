package thread

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Configure applies cfg to the calling OS thread. The caller must be locked
// to its thread.
func Configure(cfg Config) error {
	if cfg.CPU >= 0 {
		var set unix.CPUSet
		set.Set(cfg.CPU)
		if err := unix.SchedSetaffinity(0, &set); err != nil {
			return fmt.Errorf("set affinity to cpu %d: %w", cfg.CPU, err)
		}
	}
	if cfg.Priority > 0 {
		attr := unix.SchedAttr{
			Size:     unix.SizeofSchedAttr,
			Policy:   unix.SCHED_FIFO,
			Priority: uint32(cfg.Priority),
		}
		if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
			return fmt.Errorf("set fifo priority %d: %w", cfg.Priority, err)
		}
	}
	return nil
}
