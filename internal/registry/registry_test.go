package registry

import (
	"testing"

	"github.com/vovakirdan/jumpnbump/internal/game"
)

type stubLevel struct{ id, title string }

func (s stubLevel) Load()               {}
func (s stubLevel) Init(*game.Runtime)  {}
func (s stubLevel) Frame(*game.Runtime) {}
func (s stubLevel) ID() string          { return s.id }
func (s stubLevel) Title() string       { return s.title }

func TestRegisterAndCreate(t *testing.T) {
	Register("test-b", func() Level { return stubLevel{"test-b", "B"} })
	Register("test-a", func() Level { return stubLevel{"test-a", "A"} })

	if !Exists("test-a") {
		t.Error("Exists(test-a) = false, expected true")
	}
	if Exists("missing") {
		t.Error("Exists(missing) = true, expected false")
	}

	lvl, err := Create("test-b")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if lvl.Title() != "B" {
		t.Errorf("Title() = %q, expected %q", lvl.Title(), "B")
	}

	if _, err := Create("missing"); err == nil {
		t.Error("Create(missing) should fail")
	}

	var ids []string
	for _, info := range List() {
		ids = append(ids, info.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("List() not sorted: %v", ids)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", func() Level { return stubLevel{"test-dup", "Dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register() should panic")
		}
	}()
	Register("test-dup", func() Level { return stubLevel{"test-dup", "Dup"} })
}
