// Package local defines the on-device cache slot holding the whole
// transaction set as one serialized value.
package local

import "context"

// DefaultKey names the slot the application reads and writes.
const DefaultKey = "jasa-arha-db-v1"

// Slot is a single durable key-value entry. Write replaces the whole value.
type Slot interface {
	// Read returns the stored bytes, or nil with no error when nothing has
	// been written yet.
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}
