package preview

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/gistlens/internal/apperr"
	"github.com/starford/gistlens/internal/checksum"
)

// State is the preview lifecycle state.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateRendered State = "rendered"
	StateFailed   State = "failed"
)

// Document is a composed preview bound to a live handle.
type Document struct {
	Handle    string    `json:"handle"`
	URL       string    `json:"url"`
	HTML      string    `json:"-"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// Status is a snapshot of the surface.
type Status struct {
	State     State     `json:"state"`
	Handle    string    `json:"handle,omitempty"`
	URL       string    `json:"url,omitempty"`
	Source    string    `json:"source,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Notifier receives every state transition.
type Notifier func(Status)

// Surface is the only owner of the live preview handle. Issuing a new
// document always revokes the previous one first.
type Surface struct {
	basePath string
	notify   Notifier
	now      func() time.Time

	mu      sync.Mutex
	current *Document
	status  Status
}

// NewSurface creates an idle surface that serves documents under basePath.
func NewSurface(basePath string, notify Notifier) *Surface {
	s := &Surface{
		basePath: strings.TrimRight(basePath, "/"),
		notify:   notify,
		now:      time.Now,
	}
	s.status = Status{State: StateIdle, UpdatedAt: s.now()}
	return s
}

// Begin marks a load as in flight. The live document, if any, stays
// available until the load finishes.
func (s *Surface) Begin(source string) {
	s.transition(func() {
		s.status = Status{
			State:  StateLoading,
			Handle: s.handleLocked(),
			URL:    s.urlLocked(),
			Source: source,
		}
	})
}

// Present composes the document, revokes the previous handle and issues a
// fresh one.
func (s *Surface) Present(html string, css, js []Fragment) *Document {
	composed := Compose(html, css, js)
	var doc *Document
	s.transition(func() {
		s.current = nil
		handle := uuid.NewString()
		doc = &Document{
			Handle:    handle,
			URL:       s.basePath + "/" + handle,
			HTML:      composed,
			Checksum:  checksum.Sum(composed),
			CreatedAt: s.now(),
		}
		s.current = doc
		s.status = Status{
			State:  StateRendered,
			Handle: doc.Handle,
			URL:    doc.URL,
			Source: s.status.Source,
		}
	})
	cp := *doc
	return &cp
}

// Fail revokes the live handle and records a user-facing message.
func (s *Surface) Fail(err error) {
	s.transition(func() {
		s.current = nil
		s.status = Status{
			State:  StateFailed,
			Source: s.status.Source,
			Error:  apperr.Message(err),
		}
	})
}

// Release revokes the live handle and returns to idle.
func (s *Surface) Release() {
	s.transition(func() {
		s.current = nil
		s.status = Status{State: StateIdle}
	})
}

// Open returns the live document for handle.
func (s *Surface) Open(handle string) (*Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Handle != handle {
		return nil, false
	}
	cp := *s.current
	return &cp, true
}

// Status returns the current snapshot.
func (s *Surface) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Surface) transition(fn func()) {
	s.mu.Lock()
	fn()
	s.status.UpdatedAt = s.now()
	st := s.status
	s.mu.Unlock()

	if s.notify != nil {
		s.notify(st)
	}
}

func (s *Surface) handleLocked() string {
	if s.current == nil {
		return ""
	}
	return s.current.Handle
}

func (s *Surface) urlLocked() string {
	if s.current == nil {
		return ""
	}
	return s.current.URL
}
