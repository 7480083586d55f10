package srvsentry

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/go-git/go-git/v5"
)

// ErrInvalidGitRepository is returned when a directory holds no readable git metadata.
var ErrInvalidGitRepository = errors.New("invalid git repository")

// GitRevision returns the commit sha checked out in dir.
func GitRevision(dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", dir, ErrInvalidGitRepository, err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("%s: resolve HEAD: %w: %v", dir, ErrInvalidGitRepository, err)
	}
	return head.Hash().String(), nil
}

// PackageVersion returns the main module version recorded in the build info.
func PackageVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return info.Main.Version
}
