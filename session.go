package j18n

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Session holds the current JSON text a batch of diff records is classified
// against. Handlers built by a session resolve added and changed paths in
// that text. A session is safe for concurrent use; Close releases the text.
type Session struct {
	mu      sync.RWMutex
	current string
	closed  bool

	log     *slog.Logger
	workers int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger handlers trace their decisions to at debug
// level. The default logger discards everything.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithWorkers bounds the number of records Classify works on at once.
func WithWorkers(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewSession starts a session over current, the text of the newer document.
func NewSession(current string, opts ...SessionOption) (*Session, error) {
	if strings.TrimSpace(current) == "" {
		return nil, ErrNoCurrentText
	}
	s := &Session{
		current: current,
		log:     slog.New(slog.DiscardHandler),
		workers: Workers(),
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Close releases the current text. Handlers of a closed session fail with
// ErrSessionClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
	s.closed = true
	return nil
}

func (s *Session) text() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrSessionClosed
	}
	return s.current, nil
}

// Chain builds a fresh handler chain: a head that rejects nil records,
// followed by the Object, Array, Value and Type handlers.
func (s *Session) Chain() Handler {
	head := s.newHandler("head", s.checkRecord)
	head.SetNext(s.Handler(KindObject)).
		SetNext(s.Handler(KindArray)).
		SetNext(s.Handler(KindValue)).
		SetNext(s.Handler(KindType))
	return head
}

// Handler builds a stand-alone handler for one record kind, or nil for an
// unknown kind.
func (s *Session) Handler(kind RecordKind) Handler {
	switch kind {
	case KindObject:
		return s.newHandler("object", s.classifyObject)
	case KindArray:
		return s.newHandler("array", s.classifyArray)
	case KindValue:
		return s.newHandler("value", s.classifyValue)
	case KindType:
		return s.newHandler("type", s.classifyType)
	}
	return nil
}

// Classify runs every record through its own chain and returns the results
// in record order. Records are independent and are classified on bounded
// workers. A record no handler claims yields a nil result.
func (s *Session) Classify(ctx context.Context, records []Record) ([]*DiffResult, error) {
	if _, err := s.text(); err != nil {
		return nil, err
	}
	results := make([]*DiffResult, len(records))
	err := forEach(ctx, len(records), s.workers, func(i int) error {
		res, err := s.Chain().Handle(records[i])
		if err != nil {
			return fmt.Errorf("j18n: classify record %d: %w", i, err)
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("classified diff records", "records", len(records))
	return results, nil
}

func (s *Session) checkRecord(rec Record) (*DiffResult, bool, error) {
	if rec == nil {
		return nil, false, ErrNilRecord
	}
	if _, err := s.text(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (s *Session) classifyObject(rec Record) (*DiffResult, bool, error) {
	r, ok := rec.(*ObjectRecord)
	if !ok {
		return nil, false, nil
	}
	base := trimRecordPath(r.At)
	var added []string
	removed := []string{}
	for _, m := range r.Mismatches {
		switch m.Side {
		case RightOnly:
			added = append(added, propertyPath(base, m.Name))
		case LeftOnly:
			removed = append(removed, propertyPath(base, m.Name))
		}
	}
	return s.result(KindObject, added, removed)
}

// classifyArray names each mismatched item by its position among the
// mismatches of the same side, not by ItemMismatch.Index. The two agree only
// when the mismatched items of a side are contiguous from index 0.
func (s *Session) classifyArray(rec Record) (*DiffResult, bool, error) {
	r, ok := rec.(*ArrayRecord)
	if !ok {
		return nil, false, nil
	}
	base := trimRecordPath(r.At)
	var added []string
	removed := []string{}
	for _, m := range r.Mismatches {
		switch m.Side {
		case RightOnly:
			added = append(added, itemPath(base, len(added)))
		case LeftOnly:
			removed = append(removed, itemPath(base, len(removed)))
		}
	}
	return s.result(KindArray, added, removed)
}

func (s *Session) classifyValue(rec Record) (*DiffResult, bool, error) {
	r, ok := rec.(*ValueRecord)
	if !ok {
		return nil, false, nil
	}
	return s.result(KindValue, []string{trimRecordPath(r.At)}, nil)
}

func (s *Session) classifyType(rec Record) (*DiffResult, bool, error) {
	r, ok := rec.(*TypeRecord)
	if !ok {
		return nil, false, nil
	}
	return s.result(KindType, []string{trimRecordPath(r.At)}, nil)
}

// result resolves the added paths in the current text and builds the claimed
// result.
func (s *Session) result(kind RecordKind, added, removed []string) (*DiffResult, bool, error) {
	text, err := s.text()
	if err != nil {
		return nil, false, err
	}
	updated, err := ResolvePaths(text, added)
	if err != nil {
		return nil, false, err
	}
	return &DiffResult{Type: kind, UpdatedProperties: updated, RemovedProperties: removed}, true, nil
}
