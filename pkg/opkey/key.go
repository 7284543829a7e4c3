// Package opkey provides the namespaced identifier of a registered operation.
package opkey

import (
	"fmt"
	"regexp"
	"strings"
)

const logPrefix = "opkey:key"

var tokenRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// Key identifies one operation as namespace.name. It is comparable and can be
// used directly as a map key.
type Key struct {
	Namespace string
	Name      string
}

// New builds a Key after validating both tokens.
func New(namespace, name string) (Key, error) {
	k := Key{Namespace: namespace, Name: name}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

// Must is like New but panics on invalid tokens.
func Must(namespace, name string) Key {
	k, err := New(namespace, name)
	if err != nil {
		panic(err)
	}
	return k
}

// Parse splits "namespace.name" on the first dot.
//
// Supported formats:
//   - notebook.list
//   - blocks.getKramdown
func Parse(input string) (Key, error) {
	raw := strings.TrimSpace(input)

	dot := strings.Index(raw, ".")
	if dot == -1 {
		return Key{}, fmt.Errorf("%s - invalid operation key, missing namespace: %q", logPrefix, raw)
	}
	return New(raw[:dot], raw[dot+1:])
}

// Validate checks that both tokens are non-empty identifiers without dots.
func (k Key) Validate() error {
	if !ValidToken(k.Namespace) {
		return fmt.Errorf("%s - invalid namespace %q", logPrefix, k.Namespace)
	}
	if !ValidToken(k.Name) {
		return fmt.Errorf("%s - invalid name %q", logPrefix, k.Name)
	}
	return nil
}

// String returns namespace.name.
func (k Key) String() string {
	return k.Namespace + "." + k.Name
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// ValidToken reports whether s can be used as a namespace or a name.
func ValidToken(s string) bool {
	return tokenRegex.MatchString(s)
}
