package j18n

import (
	"errors"
	"strings"
)

var (
	ErrEmptyKey        = errors.New("j18n: key cannot be empty")
	ErrNegativeIndex   = errors.New("j18n: index must not be negative")
	ErrDuplicateKey    = errors.New("j18n: duplicate key")
	ErrAlreadyAttached = errors.New("j18n: joint already has a parent")
	ErrPositionalKey   = errors.New("j18n: array children are keyed by index")
	ErrInvalidPath     = errors.New("j18n: invalid path")
	ErrPathNoDot       = errors.New("j18n: sub-joint path must start with '.'")
	ErrNilRecord       = errors.New("j18n: nil diff record")
	ErrNoCurrentText   = errors.New("j18n: current JSON text is required")
	ErrSessionClosed   = errors.New("j18n: diff session is closed")
)

// DuplicateKeyError reports every key that would collide if a batch of
// joints were attached: keys repeated inside the batch and keys already used
// by stored children. Ignored lists keys exempt from the check (the key of a
// child being replaced).
type DuplicateKeyError struct {
	Ignored  []string
	InBatch  []string
	InStored []string
}

func (e *DuplicateKeyError) Error() string {
	var b strings.Builder
	b.WriteString("j18n: duplicate key")
	if len(e.Ignored) > 0 {
		b.WriteString("; ignored keys: ")
		b.WriteString(strings.Join(e.Ignored, ", "))
	}
	if len(e.InBatch) > 0 {
		b.WriteString("; duplicate keys found in children: ")
		b.WriteString(strings.Join(e.InBatch, ", "))
	}
	if len(e.InStored) > 0 {
		b.WriteString("; duplicate keys found in stored children: ")
		b.WriteString(strings.Join(e.InStored, ", "))
	}
	return b.String()
}

// Is lets errors.Is(err, ErrDuplicateKey) match.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// Keys returns every colliding key, batch collisions first.
func (e *DuplicateKeyError) Keys() []string {
	out := make([]string, 0, len(e.InBatch)+len(e.InStored))
	out = append(out, e.InBatch...)
	return append(out, e.InStored...)
}
