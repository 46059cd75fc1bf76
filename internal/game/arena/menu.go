package arena

import "go.uber.org/zap"

// Chooser picks a button index from the labels shown; out-of-range picks nothing.
type Chooser func(title string, labels []string) int

// FirstChoice always picks the first button.
func FirstChoice(string, []string) int { return 0 }

type menuButton struct {
	label    string
	onSelect func() error
}

// Menu is a non-interactive host.Menu that lets a Chooser answer for the player.
type Menu struct {
	chooser Chooser
	logger  *zap.Logger
	title   string
	buttons []menuButton
	// Err is the error returned by the chosen button, if any.
	Err error
	// Chosen is the label picked by the last Show, or "".
	Chosen string
}

func (m *Menu) AddLevel(title string) {
	m.title = title
	m.buttons = nil
}

func (m *Menu) AddButton(label string, onSelect func() error) {
	m.buttons = append(m.buttons, menuButton{label: label, onSelect: onSelect})
}

// Labels returns the button labels in the order added.
func (m *Menu) Labels() []string {
	out := make([]string, len(m.buttons))
	for i, b := range m.buttons {
		out[i] = b.label
	}
	return out
}

// Show asks the chooser for a button and runs it.
func (m *Menu) Show() {
	labels := m.Labels()
	i := m.chooser(m.title, labels)
	if i < 0 || i >= len(m.buttons) {
		m.logger.Debug("menu dismissed", zap.String("title", m.title), zap.Strings("options", labels))
		return
	}
	m.Chosen = labels[i]
	m.logger.Debug("menu choice", zap.String("title", m.title), zap.String("choice", m.Chosen))
	m.Err = m.buttons[i].onSelect()
}
