// Package idgen hands out time ordered 63 bit ids based on sonyflake.
package idgen

import (
	"errors"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// ErrNotConfigured is returned when sonyflake rejected the settings.
var ErrNotConfigured = errors.New("idgen: sonyflake could not be initialised")

// Epoch is the sonyflake start time, ids are relative to it.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

var (
	mu      sync.Mutex           //nolint:gochecknoglobals
	current *sonyflake.Sonyflake //nolint:gochecknoglobals
)

// Configure replaces the process wide generator. machineID must be unique per instance
// sharing one database.
func Configure(machineID uint16) error {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: Epoch,
		MachineID: func() (uint16, error) { return machineID, nil },
	})
	if sf == nil {
		return ErrNotConfigured
	}

	mu.Lock()
	current = sf
	mu.Unlock()

	return nil
}

// Next returns the next id. Without Configure, machine id 1 is used.
func Next() (uint64, error) {
	mu.Lock()

	if current == nil {
		current = sonyflake.NewSonyflake(sonyflake.Settings{
			StartTime: Epoch,
			MachineID: func() (uint16, error) { return 1, nil },
		})
	}

	sf := current
	mu.Unlock()

	if sf == nil {
		return 0, ErrNotConfigured
	}

	return sf.NextID() //nolint:wrapcheck
}
