package custom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gqlregistry "logpose.GO/graphql/registry"
)

func TestIsFillerExtension(t *testing.T) {
	got, err := gqlregistry.Resolve(context.Background(), "isFiller", map[string]any{"episode": 54.0})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"episode": 54, "filler": true}, got)

	got, err = gqlregistry.Resolve(context.Background(), "isFiller", map[string]any{"episode": 1.0})
	require.NoError(t, err)
	assert.Equal(t, false, got.(map[string]any)["filler"])

	_, err = gqlregistry.Resolve(context.Background(), "isFiller", map[string]any{})
	assert.Error(t, err)
}
