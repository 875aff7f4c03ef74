package ports

import "context"

// CommandRunner runs an external program as a filter: stdin in, stdout out.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	Run(ctx context.Context, dir string, argv []string, stdin []byte) ([]byte, error)
}
