package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsog/shoplist/internal/core/domain"
)

func TestGateway_ReadBeforeWrite(t *testing.T) {
	g := NewGateway()

	_, err := g.ReadEntries()
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = g.ReadSettings()
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGateway_EntriesDropIDs(t *testing.T) {
	g := NewGateway()

	require.NoError(t, g.WriteEntries([]domain.ShoppingEntry{{ID: "1", Text: "Milk"}}))

	got, err := g.ReadEntries()
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingEntry{{Text: "Milk"}}, got)
	assert.Equal(t, 1, g.EntryWrites())
}

func TestGateway_FailWrites(t *testing.T) {
	g := NewGateway()
	boom := errors.New("disk full")
	g.FailWrites(boom)

	assert.ErrorIs(t, g.WriteEntries(nil), boom)
	assert.ErrorIs(t, g.WriteSettings(domain.DefaultSettings()), boom)
	assert.Equal(t, 0, g.EntryWrites())

	g.FailWrites(nil)
	require.NoError(t, g.WriteSettings(domain.DefaultSettings()))
	assert.Equal(t, 1, g.SettingsWrites())
}
