package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterFallsBackToDefault(t *testing.T) {
	theme, err := NewThemeEmitter(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, theme.Current())

	font, err := NewFontEmitter(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultFont, font.Current())
}

func TestEmitterPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	theme, err := NewThemeEmitter(dir)
	require.NoError(t, err)
	require.NoError(t, theme.Set("theme-dark"))

	reopened, err := NewThemeEmitter(dir)
	require.NoError(t, err)
	assert.Equal(t, "theme-dark", reopened.Current())
}

func TestEmitterNotifiesAllSubscribers(t *testing.T) {
	theme, err := NewThemeEmitter(t.TempDir())
	require.NoError(t, err)

	var first, second []string
	unsubFirst := theme.Subscribe(func(v string) { first = append(first, v) })
	defer unsubFirst()
	unsubSecond := theme.Subscribe(func(v string) { second = append(second, v) })
	defer unsubSecond()

	require.NoError(t, theme.Set("theme-dark"))

	assert.Equal(t, []string{"theme-dark"}, first)
	assert.Equal(t, []string{"theme-dark"}, second)
}

func TestEmitterUnsubscribeStopsNotifications(t *testing.T) {
	font, err := NewFontEmitter(t.TempDir())
	require.NoError(t, err)

	calls := 0
	unsubscribe := font.Subscribe(func(string) { calls++ })

	require.NoError(t, font.Set("lora"))
	unsubscribe()
	require.NoError(t, font.Set("caveat"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "caveat", font.Current())
}

func TestThemeAndFontKeysDoNotCollide(t *testing.T) {
	dir := t.TempDir()

	theme, err := NewThemeEmitter(dir)
	require.NoError(t, err)
	font, err := NewFontEmitter(dir)
	require.NoError(t, err)

	require.NoError(t, theme.Set("theme-dark"))
	require.NoError(t, font.Set("lora"))

	assert.Equal(t, "theme-dark", theme.Current())
	assert.Equal(t, "lora", font.Current())
}
