package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// RunID identifies one evaluation of one sample set
	RunID ID
	// DUTID identifies the device under test; it is report metadata only
	DUTID ID
)

func (id RunID) String() string { return ID(id).String() }
func (id DUTID) String() string { return ID(id).String() }

// NewRunID creates a time-ordered run identifier
func NewRunID() RunID {
	return RunID(NewID())
}

// DUTDateLayout is the date suffix appended to generated DUT identifiers (yyyyMMdd)
const DUTDateLayout = "20060102"

// NewDUTID composes a device-under-test identifier from the battery name, the
// device name and the test date.
func NewDUTID(batteryName, deviceName string, date time.Time) (DUTID, error) {
	battery := strings.TrimSpace(batteryName)
	device := strings.TrimSpace(deviceName)
	if battery == "" {
		return "", fmt.Errorf("battery name cannot be empty")
	}
	if device == "" {
		return "", fmt.Errorf("device name cannot be empty")
	}
	return DUTID(battery + device + date.Format(DUTDateLayout)), nil
}

// ParseDUTID parses a string into DUTID
func ParseDUTID(s string) (DUTID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("DUT ID cannot be empty")
	}
	return DUTID(s), nil
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}
