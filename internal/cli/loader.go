package cli

import (
	"errors"
	"io/fs"

	"github.com/roach88/fmtconform/internal/fixture"
)

// loadedFixture is a case table together with where it came from.
type loadedFixture struct {
	Source string
	Table  *fixture.Table
	Hash   string
}

// loadFixture loads path, or the built-in table when path is empty, and
// applies the case filter. Errors are ExitErrors: a missing file is a
// command error, an invalid fixture is a failure.
func loadFixture(path, filter string) (*loadedFixture, error) {
	source := path
	var table *fixture.Table
	var err error
	if path == "" {
		source = fixture.DefaultName
		table, err = fixture.Default()
	} else {
		table, err = fixture.Load(path)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, WrapExitError(ExitCommandError, "fixture not found", err)
		}
		return nil, WrapExitError(ExitFailure, "invalid fixture", err)
	}

	table, err = table.Filter(filter)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --filter", err)
	}

	hash, err := table.Hash()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "hash fixture", err)
	}
	return &loadedFixture{Source: source, Table: table, Hash: hash}, nil
}

// errorCode picks the JSON error code for an error returned by a command.
func errorCode(err error) string {
	var loadErr *fixture.LoadError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	case errors.As(err, &loadErr):
		return ErrCodeFixture
	default:
		return ErrCodeGeneric
	}
}

// shortHash abbreviates a content hash for text output.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
