package pix

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidField is returned when a tag or value cannot be length-prefixed.
var ErrInvalidField = errors.New("invalid TLV field")

// MaxValueLen is the largest value a two-digit length prefix can describe.
const MaxValueLen = 99

// Builder assembles tag-length-value fields in insertion order.
// The first failing Add is remembered and returned by Err and Build.
type Builder struct {
	sb  strings.Builder
	err error
}

// Add appends tag, the two-digit length of value and value.
func (b *Builder) Add(tag, value string) *Builder {
	if b.err != nil {
		return b
	}
	if len(tag) != 2 || tag[0] < '0' || tag[0] > '9' || tag[1] < '0' || tag[1] > '9' {
		b.err = fmt.Errorf("%w: tag %q", ErrInvalidField, tag)
		return b
	}
	if len(value) > MaxValueLen {
		b.err = fmt.Errorf("%w: tag %s value is %d bytes", ErrInvalidField, tag, len(value))
		return b
	}
	fmt.Fprintf(&b.sb, "%s%02d%s", tag, len(value), value)
	return b
}

// AddTemplate appends tag with a nested TLV sequence as its value.
func (b *Builder) AddTemplate(tag string, nested *Builder) *Builder {
	if b.err != nil {
		return b
	}
	v, err := nested.Build()
	if err != nil {
		b.err = err
		return b
	}
	return b.Add(tag, v)
}

// Raw appends s without a length prefix.
func (b *Builder) Raw(s string) *Builder {
	if b.err == nil {
		b.sb.WriteString(s)
	}
	return b
}

// Err returns the first error recorded by Add.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the assembled sequence or the first error.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return b.sb.String(), nil
}
