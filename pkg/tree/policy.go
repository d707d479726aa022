package tree

import (
	"fmt"
	"strings"
)

// Policy decides what happens when a single file cannot be hashed or
// written.
type Policy int

const (
	// Lenient skips the failing file and keeps going.
	Lenient Policy = iota
	// Strict aborts on the first failure.
	Strict
)

func (p Policy) String() string {
	switch p {
	case Lenient:
		return "lenient"
	case Strict:
		return "strict"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses "lenient" or "strict". The empty string is lenient.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, fmt.Errorf("unknown tree policy %q", s)
	}
}
