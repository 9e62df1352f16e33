package game

import (
	"errors"

	"github.com/iburimskiy/backdrop/internal/pulse"
	"github.com/iburimskiy/backdrop/internal/theme"
	"github.com/ncruces/zenity"
	"go.uber.org/zap"
)

// pickTheme shows the theme list and switches to the choice.
func (g *Game) pickTheme() {
	names := themeNames()
	choice, err := zenity.List("Choose a background", names,
		zenity.Title("Theme"),
		zenity.DefaultItems(string(g.ctrl.Theme())),
	)
	t, ok, err := chosenTheme(choice, err)
	if err != nil {
		g.log.Warn("theme picker failed", zap.Error(err))
		return
	}
	if ok {
		g.ctrl.SetTheme(t)
	}
}

// openAudio asks for an audio file and plays it.
func (g *Game) openAudio() {
	path, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: pulse.Extensions,
		}},
	)
	path, ok, err := chosenFile(path, err)
	if err != nil {
		g.log.Warn("file dialog failed", zap.Error(err))
		return
	}
	if ok {
		g.ctrl.Play(path)
	}
}

func themeNames() []string {
	all := theme.All()
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.String()
	}
	return names
}

// chosenTheme interprets a list dialog result. Cancelling is not an error.
func chosenTheme(choice string, err error) (theme.Theme, bool, error) {
	if errors.Is(err, zenity.ErrCanceled) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	t, err := theme.Parse(choice)
	if err != nil {
		return "", false, err
	}
	return t, true, nil
}

// chosenFile interprets a file dialog result. Cancelling is not an error.
func chosenFile(path string, err error) (string, bool, error) {
	if errors.Is(err, zenity.ErrCanceled) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return path, path != "", nil
}
