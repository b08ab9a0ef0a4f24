package scan

import "context"

// Scanner reports the packages used by files and everything they reach
// through relative imports. dir is the project root; files are relative to
// it or absolute.
type Scanner interface {
	Scan(ctx context.Context, dir string, files []string) (*Usage, error)
}
