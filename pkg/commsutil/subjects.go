package commsutil

import (
	"fmt"
)

// Default COMMS subjects.
const (
	SubjectDispatch    = "siyuan.bridge.v1.dispatch"
	SubjectChangeEvent = "siyuan.changed"
)

// BuildChangeSubject builds a granular change event subject under prefix,
// e.g. siyuan.changed.notebook.create.
func BuildChangeSubject(prefix, namespace, name string) string {
	if prefix == "" {
		prefix = SubjectChangeEvent
	}
	return fmt.Sprintf("%s.%s.%s", prefix, namespace, name)
}
