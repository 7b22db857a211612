package postgresadapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator is the production event id generator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
