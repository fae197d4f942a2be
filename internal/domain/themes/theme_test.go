//go:build unit
// +build unit

package themes

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientColors() map[string]string {
	colors := map[string]string{}
	for _, key := range ColorKeys[TypeClient] {
		colors[key] = "#336699"
	}
	return colors
}

func TestTheme_Validate(t *testing.T) {
	theme := &Theme{
		ID:        uuid.NewString(),
		Type:      TypeClient,
		Name:      "Ocean",
		Colors:    clientColors(),
		DateAdded: time.Now(),
	}
	require.NoError(t, theme.Validate())
	assert.True(t, theme.IsSystem())

	theme.Colors["link"] = "blue"
	err := theme.Validate()
	require.Error(t, err)

	theme.Colors = clientColors()
	delete(theme.Colors, "link")
	err = theme.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing link")

	theme.Colors = clientColors()
	theme.Colors["sparkle"] = "#fff"
	err = theme.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sparkle")
}

func TestMissingColors(t *testing.T) {
	assert.Empty(t, MissingColors(TypeClient, clientColors()))
	assert.Len(t, MissingColors(TypeAdmin, map[string]string{}), len(ColorKeys[TypeAdmin]))
}
