package scenes

import (
	"github.com/zeusync/arena/internal/core/devices"
	"github.com/zeusync/arena/internal/core/systems/physics"
)

// menu is a vertical list navigated with the up/down actions.
type menu struct {
	items    []string
	selected int
}

// navigate moves the cursor and reports the confirmed item, if any.
func (m *menu) navigate(in devices.InputController) (string, bool) {
	if len(m.items) == 0 || in == nil {
		return "", false
	}
	switch {
	case in.IsActionJustPressed(devices.ActionUp):
		m.selected = (m.selected - 1 + len(m.items)) % len(m.items)
	case in.IsActionJustPressed(devices.ActionDown):
		m.selected = (m.selected + 1) % len(m.items)
	case in.IsActionJustPressed(devices.ActionConfirm):
		return m.items[m.selected], true
	}
	return "", false
}

func (m *menu) render(r devices.Renderer, origin physics.Vector2, label func(string) string) {
	for i, item := range m.items {
		c := colorText
		text := item
		if label != nil {
			text = label(item)
		}
		if i == m.selected {
			c = colorSelected
			text = "> " + text
		}
		r.DrawText(text, origin.Add(physics.Vec2(0, float64(i)*24)), c)
	}
}
