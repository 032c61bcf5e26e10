package core

import "testing"

func TestScreenSetAndGet(t *testing.T) {
	s := NewScreen(4, 2)
	s.Set(1, 1, 'x', Palette2)

	c := s.GetCell(1, 1)
	if c.Rune != 'x' || c.Palette != Palette2 {
		t.Errorf("GetCell(1, 1) = %+v, expected {x 2}", c)
	}

	// Out of bounds writes are ignored, reads are blank
	s.Set(-1, 0, 'y', Palette0)
	s.Set(4, 0, 'y', Palette0)
	if got := s.GetCell(10, 10); got.Rune != ' ' || got.Palette != PaletteNone {
		t.Errorf("GetCell(out of bounds) = %+v, expected blank", got)
	}
	if s.String() != "    \n x  " {
		t.Errorf("String() = %q", s.String())
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(9, 1)
	s.DrawTextCentered(0, "abc", Palette1)
	if s.String() != "   abc   " {
		t.Errorf("String() = %q, expected %q", s.String(), "   abc   ")
	}
	s.Clear()
	if s.String() != "         " {
		t.Errorf("Clear() left %q", s.String())
	}
}
