package target

import (
	"fmt"
	"strings"
)

// UnknownTargetError reports a build request for a name that is neither a
// registered leaf target nor a group. It carries the valid names so the CLI
// can print them.
type UnknownTargetError struct {
	Name   string
	Leaves []string
	Groups []string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q (targets: %s; groups: %s)",
		e.Name, strings.Join(e.Leaves, ", "), strings.Join(e.Groups, ", "))
}

// UnknownGroupError reports an expansion request for an unregistered group.
type UnknownGroupError struct {
	Name   string
	Groups []string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown group %q (groups: %s)", e.Name, strings.Join(e.Groups, ", "))
}
