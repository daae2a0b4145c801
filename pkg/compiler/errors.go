package compiler

import "fmt"

// CompilationError reports source text that could not be turned into a
// loadable artifact. Source text normally comes from the deterministic
// generator, so seeing one of these usually indicates a generator or
// validator gap rather than a transient fault.
type CompilationError struct {
	QualifiedName string
	Diagnostic    string
	Err           error
}

func (e *CompilationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compilation of %s failed: %s: %v", e.QualifiedName, e.Diagnostic, e.Err)
	}
	return fmt.Sprintf("compilation of %s failed: %s", e.QualifiedName, e.Diagnostic)
}

func (e *CompilationError) Unwrap() error { return e.Err }

// InstantiationError reports a failure constructing an instance of a
// compiled artifact, including default-value application.
type InstantiationError struct {
	QualifiedName string
	Err           error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiation of %s failed: %v", e.QualifiedName, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }
