package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreProvider(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	// Use a random database for isolation
	randDB := fmt.Sprintf("test-db-%d", time.Now().UnixNano())
	f := &FirestoreProvider{
		projectID:  "test-project-id",
		database:   randDB,
		collection: "artifacts",
	}

	ctx := context.Background()
	require.NoError(t, f.Init(ctx))
	defer f.Close()

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.Validate())
		assert.Error(t, (&FirestoreProvider{}).Validate())
	})

	t.Run("PutGet", func(t *testing.T) {
		require.NoError(t, f.Put(ctx, "scaler.json", []byte(`{"kind":"standard"}`)))
		b, err := f.Get(ctx, "scaler.json")
		require.NoError(t, err)
		assert.Equal(t, `{"kind":"standard"}`, string(b))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := f.Get(ctx, "missing.json")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := f.Get(ctx, "")
		assert.ErrorContains(t, err, "artifact name cannot be empty")
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, f.Put(ctx, "model.json", []byte(`{}`)))
		names, err := f.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"model.json", "scaler.json"}, names)
	})
}
