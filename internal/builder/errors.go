package builder

import "fmt"

// CompileError reports a failed compilation of one source file. It carries
// the target, the compilation unit, and the toolchain's diagnostic output.
type CompileError struct {
	Target string
	Source string
	Output string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("target %s: compiling %s: %v\n%s", e.Target, e.Source, e.Err, e.Output)
}

func (e *CompileError) Unwrap() error { return e.Err }

// LinkError reports a failed link of a target's objects into its artifact.
type LinkError struct {
	Target string
	Output string
	Err    error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("target %s: linking: %v\n%s", e.Target, e.Err, e.Output)
}

func (e *LinkError) Unwrap() error { return e.Err }
