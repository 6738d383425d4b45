package encoding

import "fmt"

// Tag is the symbolic version tag persisted alongside a polymorphic value's
// opaque blob. Tags are never reused: a new variant gets a new tag and old
// tags must keep decoding forever.
type Tag string

// ErrUnknownTag is returned by a family's Decode when it sees a tag it does
// not recognize. Callers must treat this as a fatal decode failure, not a
// default value — see invariant 7.
type ErrUnknownTag struct {
	Family string
	Tag    Tag
}

func (e *ErrUnknownTag) Error() string {
	return fmt.Sprintf("%s: unknown type version tag %q", e.Family, e.Tag)
}

// ErrMalformedBlob wraps the underlying json error when a blob with a known
// tag fails to unmarshal into that tag's DTO shape.
type ErrMalformedBlob struct {
	Family string
	Tag    Tag
	Err    error
}

func (e *ErrMalformedBlob) Error() string {
	return fmt.Sprintf("%s: malformed blob for tag %q: %v", e.Family, e.Tag, e.Err)
}

func (e *ErrMalformedBlob) Unwrap() error { return e.Err }

// errUnregisteredGoType is returned by a family's Encode when handed a Go
// value that does not implement any of the family's known variants. This
// can only happen from a programming error (a new variant added to the
// interface without a matching case added to Encode), never from bad input.
func errUnregisteredGoType(family string, v any) error {
	return &ErrUnknownTag{Family: family, Tag: Tag(fmt.Sprintf("<go-type:%T>", v))}
}
