package choropleth

// SelectionState is a snapshot of the hover and selection identifiers.
// An empty string means none.
type SelectionState struct {
	SelectedID  string `json:"selected_id"`
	HoveredID   string `json:"hovered_id"`
	Highlighted string `json:"highlighted"`
}

// Selection tracks at most one selected and one hovered feature. It holds
// no lock; callers serialize transitions the way a UI event queue does.
type Selection struct {
	selected string
	hovered  string
}

// NewSelection returns a controller with nothing hovered or selected.
func NewSelection() *Selection {
	return &Selection{}
}

// Hover marks id as hovered. The selection is untouched.
func (s *Selection) Hover(id string) {
	s.hovered = id
}

// Unhover clears the hover, except while the hovered feature is the
// selected one: the selection outline stays without the pointer.
func (s *Selection) Unhover() {
	if s.selected != "" && s.hovered == s.selected {
		return
	}
	s.hovered = ""
}

// Select marks id as selected.
func (s *Selection) Select(id string) {
	s.selected = id
}

// Clear resets both hover and selection.
func (s *Selection) Clear() {
	s.selected = ""
	s.hovered = ""
}

// SelectedID returns the selected identifier or "".
func (s *Selection) SelectedID() string { return s.selected }

// HoveredID returns the hovered identifier or "".
func (s *Selection) HoveredID() string { return s.hovered }

// Highlighted is the identifier the outline overlay filters on: the
// hovered feature if any, otherwise the selected one.
func (s *Selection) Highlighted() string {
	if s.hovered != "" {
		return s.hovered
	}
	return s.selected
}

// State returns a snapshot of the current state.
func (s *Selection) State() SelectionState {
	return SelectionState{
		SelectedID:  s.selected,
		HoveredID:   s.hovered,
		Highlighted: s.Highlighted(),
	}
}

// Rendering-layer event adapters.

// OnHover handles a pointer moving over a feature.
func (s *Selection) OnHover(id string) { s.Hover(id) }

// OnUnhover handles the pointer leaving the feature layer.
func (s *Selection) OnUnhover() { s.Unhover() }

// OnSelect handles a click on a feature.
func (s *Selection) OnSelect(id string) { s.Select(id) }

// OnBackgroundClick handles a click that hit no feature.
func (s *Selection) OnBackgroundClick() { s.Clear() }

// OnEscapeKey handles the Escape key.
func (s *Selection) OnEscapeKey() { s.Clear() }
