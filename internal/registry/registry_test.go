package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/jam-starter/internal/core"
)

type stubScene struct {
	id  string
	env Env
}

func (s *stubScene) ID() string { return s.id }
func (s *stubScene) Title() string { return "Stub" }
func (s *stubScene) Reset(core.RuntimeConfig) {}
func (s *stubScene) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (s *stubScene) Render(*core.Screen) {}
func (s *stubScene) State() core.GameState { return core.GameState{} }

func TestRegisterCreate(t *testing.T) {
	Register("zz-stub", "Stub", func(env Env) Scene { return &stubScene{id: "zz-stub", env: env} })

	if !Exists("zz-stub") {
		t.Fatal("Exists() = false after Register")
	}

	sc, err := Create("zz-stub", Env{})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	stub := sc.(*stubScene)
	if stub.env.State == nil || stub.env.Logger == nil {
		t.Error("Create() should fill in a default state and logger")
	}

	found := false
	for _, info := range List() {
		if info.ID == "zz-stub" {
			found = info.Title == "Stub"
		}
	}
	if !found {
		t.Error("List() is missing the registered scene")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", "Dup", func(Env) Scene { return &stubScene{} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate id")
		}
	}()
	Register("zz-dup", "Dup", func(Env) Scene { return &stubScene{} })
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("does-not-exist", DefaultEnv())
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Create() error = %v, want ErrUnknownScene", err)
	}
	if Exists("does-not-exist") {
		t.Error("Exists() = true for unknown id")
	}
}

func TestListSorted(t *testing.T) {
	Register("zz-b", "B", func(Env) Scene { return &stubScene{} })
	Register("zz-a", "A", func(Env) Scene { return &stubScene{} })

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List() not sorted: %v", list)
		}
	}
}
