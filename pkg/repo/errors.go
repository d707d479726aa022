package repo

import (
	"errors"
	"fmt"

	"github.com/odvcencio/yit/pkg/object"
)

// Error kinds. Public operations wrap the underlying cause as
// fmt.Errorf("<op>: %w: %w", Kind, cause) so both match errors.Is.
var (
	ErrRepoDoesNotExist  = object.ErrRepoDoesNotExist
	ErrRepoAlreadyExists = errors.New("repository already exists")
	ErrIO                = errors.New("i/o error")
	ErrIndexParsing      = errors.New("index parsing error")
	ErrCommit            = errors.New("commit error")
	ErrMerge             = errors.New("merge error")
	ErrCheckout          = errors.New("checkout error")

	ErrNothingToCommit = errors.New("nothing to commit")
	ErrBranchNotFound  = errors.New("branch not found")
	ErrInvalidBranch   = errors.New("invalid branch name")
)

// RollbackError is returned when Init fails and removing the partially
// created repository directory fails too. The directory needs manual
// cleanup.
type RollbackError struct {
	Dir      string
	Cause    error
	Rollback error
}

func (e *RollbackError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("init: %v; rollback of %s failed: %v", e.Cause, e.Dir, e.Rollback)
}

func (e *RollbackError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return []error{e.Cause, e.Rollback}
}
