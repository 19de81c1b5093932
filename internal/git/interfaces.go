package git

import "context"

// Runner executes a compiled git log command and returns its standard output.
// On failure it returns whatever output was captured together with the error.
type Runner interface {
	Run(ctx context.Context, cmd *Command) ([]byte, error)
}

// Compile-time interface conformance checks.
var (
	_ Runner = (*ExecRunner)(nil)
	_ Runner = (*NativeRunner)(nil)
	_ Runner = (*MockRunner)(nil)
)
