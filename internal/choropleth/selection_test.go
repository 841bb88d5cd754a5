package choropleth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_Initial(t *testing.T) {
	s := NewSelection()
	assert.Equal(t, SelectionState{}, s.State())
}

func TestSelection_HoverPersistsOnSelected(t *testing.T) {
	s := NewSelection()
	s.Select("A")
	s.Hover("A")
	s.Unhover()

	assert.Equal(t, "A", s.SelectedID())
	assert.Equal(t, "A", s.HoveredID())
}

func TestSelection_UnhoverClearsOtherFeature(t *testing.T) {
	s := NewSelection()
	s.Select("A")
	s.Hover("B")
	assert.Equal(t, "B", s.Highlighted())

	s.Unhover()
	assert.Equal(t, "", s.HoveredID())
	assert.Equal(t, "A", s.SelectedID())
	assert.Equal(t, "A", s.Highlighted())
}

func TestSelection_UnhoverWithoutSelection(t *testing.T) {
	s := NewSelection()
	s.Hover("A")
	s.Unhover()
	assert.Equal(t, SelectionState{}, s.State())
}

func TestSelection_HoverDoesNotSelect(t *testing.T) {
	s := NewSelection()
	s.Hover("A")
	assert.Equal(t, "", s.SelectedID())

	s.Select("B")
	s.Hover("C")
	assert.Equal(t, "B", s.SelectedID())
	assert.Equal(t, "C", s.HoveredID())
}

func TestSelection_ClearAlwaysResets(t *testing.T) {
	sequences := []func(*Selection){
		func(s *Selection) {},
		func(s *Selection) { s.Select("A") },
		func(s *Selection) { s.Hover("A") },
		func(s *Selection) { s.Select("A"); s.Hover("A"); s.Unhover() },
		func(s *Selection) { s.Select("A"); s.Select("B"); s.Hover("C") },
	}
	for i, seq := range sequences {
		s := NewSelection()
		seq(s)
		s.Clear()
		assert.Equal(t, SelectionState{}, s.State(), "sequence %d", i)
	}
}

func TestSelection_EventAdapters(t *testing.T) {
	s := NewSelection()
	s.OnSelect("A")
	s.OnHover("A")
	s.OnUnhover()
	assert.Equal(t, SelectionState{SelectedID: "A", HoveredID: "A", Highlighted: "A"}, s.State())

	s.OnBackgroundClick()
	assert.Equal(t, SelectionState{}, s.State())

	s.OnSelect("B")
	s.OnEscapeKey()
	assert.Equal(t, SelectionState{}, s.State())
}

func TestSelection_SelectReplaces(t *testing.T) {
	s := NewSelection()
	s.Select("A")
	s.Select("B")
	assert.Equal(t, "B", s.SelectedID())
}
