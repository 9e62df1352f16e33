package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/iburimskiy/backdrop/internal/app"
	"github.com/iburimskiy/backdrop/internal/theme"
	"github.com/ncruces/zenity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChosenTheme(t *testing.T) {
	th, ok, err := chosenTheme("smoke", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, theme.Smoke, th)

	_, ok, err = chosenTheme("", zenity.ErrCanceled)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = chosenTheme("waves", nil)
	assert.ErrorIs(t, err, theme.ErrUnknownTheme)

	_, _, err = chosenTheme("", errors.New("no display"))
	assert.Error(t, err)
}

func TestChosenFile(t *testing.T) {
	p, ok, err := chosenFile("/music/a.mp3", nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/music/a.mp3", p)

	_, ok, err = chosenFile("", zenity.ErrCanceled)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestThemeNames(t *testing.T) {
	assert.Equal(t, []string{"halos", "smoke", "topology"}, themeNames())
}

func TestKeymap(t *testing.T) {
	actions := map[ebiten.Key]app.Action{}
	for _, k := range keymap {
		_, dup := actions[k.key]
		require.False(t, dup, "key %v bound twice", k.key)
		actions[k.key] = k.action
	}
	assert.Equal(t, app.CycleTheme, actions[ebiten.KeyT])
	assert.Equal(t, app.Quit, actions[ebiten.KeyEscape])
	assert.Equal(t, app.Quit, actions[ebiten.KeyQ])
	assert.NotContains(t, actions, ebiten.KeyL)
	assert.NotContains(t, actions, ebiten.KeyO)
}

func TestButtonClick(t *testing.T) {
	bs := toolbar(&button{label: "a"}, &button{label: "b"})
	a, b := bs[0], bs[1]
	assert.Equal(t, toolbarX, a.x)
	assert.Equal(t, toolbarX+buttonWidth+buttonGap, b.x)

	inside := a.x + 5
	assert.False(t, a.update(inside, a.y+5, true, false), "press alone does not click")
	assert.True(t, a.pressed)
	assert.True(t, a.update(inside, a.y+5, false, true), "release over the button clicks")
	assert.False(t, a.pressed)

	a.update(inside, a.y+5, true, false)
	assert.False(t, a.update(b.x+5, b.y+5, false, true), "release elsewhere cancels")

	assert.False(t, b.update(inside, a.y+5, true, false))
	assert.False(t, b.pressed, "press outside does not arm")
}
