package booking

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinickit/dental-booking/internal/directory"
	redisclient "github.com/clinickit/dental-booking/internal/redis"
)

func newAdapterSet() *AdapterSet {
	inHouse := NewInHouseAdapter(directory.NewMemoryStore(), NewMemoryStore(), redisclient.NewLocalLocker())
	return NewAdapterSet(inHouse)
}

func TestAdapterSet_KnownIntegrations(t *testing.T) {
	set := newAdapterSet()

	assert.Equal(t, "gesden", set.For("gesden").Name())
	assert.Equal(t, "klinicare", set.For("klinicare").Name())
	assert.Equal(t, "manual", set.For("manual").Name())
}

func TestAdapterSet_UnknownDefaultsToInHouse(t *testing.T) {
	set := newAdapterSet()

	assert.Equal(t, "manual", set.For("").Name())
	assert.Equal(t, "manual", set.For("dentrix").Name())
}

func TestRemoteAdapter_AllOperationsUnavailable(t *testing.T) {
	ctx := context.Background()

	for _, adapter := range []*RemoteAdapter{NewGesdenAdapter(), NewKlinicareAdapter()} {
		_, err := adapter.QueryAvailability(ctx, uuid.New(), monday, 30)
		require.ErrorIs(t, err, ErrIntegrationUnavailable, adapter.Name())

		_, err = adapter.CreateAppointment(ctx, BookingRequest{})
		require.ErrorIs(t, err, ErrIntegrationUnavailable, adapter.Name())

		err = adapter.CancelAppointment(ctx, uuid.New())
		require.ErrorIs(t, err, ErrIntegrationUnavailable, adapter.Name())

		_, err = adapter.SyncDoctors(ctx, uuid.New())
		require.ErrorIs(t, err, ErrIntegrationUnavailable, adapter.Name())

		// Remediation text rides along for the operator.
		assert.Contains(t, err.Error(), "contact support")
	}
}
