package preview

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/starford/gistlens/internal/apperr"
)

type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) notify(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s.State)
}

func (r *recorder) got() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func TestSurface_Lifecycle(t *testing.T) {
	rec := &recorder{}
	s := NewSurface("/preview/", rec.notify)

	if st := s.Status(); st.State != StateIdle {
		t.Fatalf("initial state = %s", st.State)
	}

	s.Begin("abc123")
	if st := s.Status(); st.State != StateLoading || st.Source != "abc123" {
		t.Fatalf("after Begin: %+v", st)
	}

	doc := s.Present("<p>hi</p>", nil, nil)
	if doc.Handle == "" || doc.URL != "/preview/"+doc.Handle {
		t.Fatalf("document = %+v", doc)
	}
	if doc.Checksum == "" || !strings.Contains(doc.HTML, "<p>hi</p>") {
		t.Fatalf("document content = %+v", doc)
	}
	st := s.Status()
	if st.State != StateRendered || st.Handle != doc.Handle || st.Source != "abc123" {
		t.Fatalf("after Present: %+v", st)
	}

	opened, ok := s.Open(doc.Handle)
	if !ok || opened.HTML != doc.HTML {
		t.Fatal("Open on live handle failed")
	}

	s.Release()
	if _, ok := s.Open(doc.Handle); ok {
		t.Error("handle still live after Release")
	}

	want := []State{StateLoading, StateRendered, StateIdle}
	if got := rec.got(); len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("transitions = %v, want %v", got, want)
			}
		}
	}
}

func TestSurface_ReleaseBeforeReplace(t *testing.T) {
	s := NewSurface("/preview", nil)
	first := s.Present("a", nil, nil)
	second := s.Present("b", nil, nil)

	if first.Handle == second.Handle {
		t.Fatal("handles must differ")
	}
	if _, ok := s.Open(first.Handle); ok {
		t.Error("previous handle not revoked")
	}
	if _, ok := s.Open(second.Handle); !ok {
		t.Error("current handle not live")
	}
}

func TestSurface_FailClearsPreview(t *testing.T) {
	s := NewSurface("/preview", nil)
	doc := s.Present("a", nil, nil)

	s.Begin("next")
	// The previous preview stays visible while loading.
	if _, ok := s.Open(doc.Handle); !ok {
		t.Fatal("handle revoked by Begin")
	}

	s.Fail(apperr.ErrNotFound)
	st := s.Status()
	if st.State != StateFailed || st.Handle != "" || st.URL != "" {
		t.Fatalf("status after Fail = %+v", st)
	}
	if st.Error != apperr.Message(apperr.ErrNotFound) {
		t.Errorf("error = %q", st.Error)
	}
	if _, ok := s.Open(doc.Handle); ok {
		t.Error("handle survived Fail")
	}

	// Re-entrant: Failed -> Loading -> Rendered.
	s.Begin("again")
	if s.Status().State != StateLoading {
		t.Fatal("expected loading")
	}
	s.Present("b", nil, nil)
	if s.Status().State != StateRendered {
		t.Fatal("expected rendered")
	}
}

func TestSurface_FailWithPlainError(t *testing.T) {
	s := NewSurface("/preview", nil)
	s.Fail(errors.New("disk on fire"))
	if got := s.Status().Error; got != "disk on fire" {
		t.Errorf("error = %q", got)
	}
}

func TestSurface_OpenUnknown(t *testing.T) {
	s := NewSurface("/preview", nil)
	if _, ok := s.Open(""); ok {
		t.Error("empty handle opened")
	}
	if _, ok := s.Open("nope"); ok {
		t.Error("unknown handle opened")
	}
}

func TestSurface_ConcurrentPresent(t *testing.T) {
	s := NewSurface("/preview", nil)
	var wg sync.WaitGroup
	docs := make([]*Document, 20)
	for i := range docs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			docs[i] = s.Present("x", nil, nil)
		}()
	}
	wg.Wait()

	live := 0
	for _, d := range docs {
		if _, ok := s.Open(d.Handle); ok {
			live++
		}
	}
	if live != 1 {
		t.Errorf("live handles = %d, want 1", live)
	}
}
