package stack_test

import (
	"errors"
	"testing"

	"github.com/cogstack/cogstack-api/internal/stack"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayers_CatalogOrder(t *testing.T) {
	layers := stack.Layers()

	require.Len(t, layers, 4)
	ids := make([]string, 0, len(layers))
	for _, l := range layers {
		ids = append(ids, l.ID)
		assert.NotEmpty(t, l.Name)
		assert.NotEmpty(t, l.Technologies)
		assert.NotEmpty(t, l.Description)
	}
	assert.Equal(t, []string{"edge", "orchestration", "cognitive", "memory"}, ids)
}

func TestLayers_ReturnsCopy(t *testing.T) {
	layers := stack.Layers()
	layers[0].Name = "changed"
	layers[0].Technologies[0] = "changed"

	again := stack.Layers()
	assert.Equal(t, "Edge & Routing", again[0].Name)
	assert.Equal(t, "Cloudflare", again[0].Technologies[0])
}

func TestLookup(t *testing.T) {
	layer, ok := stack.Lookup("memory")
	require.True(t, ok)
	assert.Equal(t, "Memory Fabric", layer.Name)
	assert.Equal(t, []string{"Supabase", "Qdrant", "Neo4j", "ClickHouse"}, layer.Technologies)

	_, ok = stack.Lookup("database")
	assert.False(t, ok)
}

func TestSelection_StartsEmpty(t *testing.T) {
	s := stack.NewSelection()

	_, ok := s.Active()
	assert.False(t, ok)
	assert.Equal(t, "", s.ActiveID())
	assert.False(t, s.IsActive(""))
}

func TestSelection_SelectReplaces(t *testing.T) {
	s := stack.NewSelection()

	require.NoError(t, s.Select("memory"))
	require.NoError(t, s.Select("edge"))

	assert.Equal(t, "edge", s.ActiveID())
	active := 0
	for _, l := range stack.Layers() {
		if s.IsActive(l.ID) {
			active++
		}
	}
	assert.Equal(t, 1, active)

	layer, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "Edge & Routing", layer.Name)
}

func TestSelection_Clear(t *testing.T) {
	s := stack.NewSelection()
	s.Clear()
	assert.Equal(t, "", s.ActiveID())

	require.NoError(t, s.Select("cognitive"))
	s.Clear()
	assert.Equal(t, "", s.ActiveID())
	assert.False(t, s.IsActive("cognitive"))
}

func TestSelection_UnknownLayer(t *testing.T) {
	s := stack.NewSelection()
	require.NoError(t, s.Select("orchestration"))

	err := s.Select("database")

	assert.True(t, errors.Is(err, stack.ErrUnknownLayer))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, "orchestration", s.ActiveID())
}

func TestSelection_Subscribe(t *testing.T) {
	s := stack.NewSelection()
	var seen []string
	unsubscribe := s.Subscribe(func(id string) { seen = append(seen, id) })

	require.NoError(t, s.Select("edge"))
	require.NoError(t, s.Select("edge")) // unchanged, no notification
	require.NoError(t, s.Select("memory"))
	s.Clear()
	_ = s.Select("nope")

	assert.Equal(t, []string{"edge", "memory", ""}, seen)

	unsubscribe()
	require.NoError(t, s.Select("edge"))
	assert.Len(t, seen, 3)
}
