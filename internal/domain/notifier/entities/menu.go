package entities

// Button is one inline keyboard button
type Button struct {
	Text   string
	Action Action
}

// Menu is a text with an optional inline keyboard, one slice per row
type Menu struct {
	Text string
	Rows [][]Button
}

// HasButtons reports whether the menu carries a keyboard
func (m Menu) HasButtons() bool {
	return len(m.Rows) > 0
}
