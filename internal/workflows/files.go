package workflows

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

// SealedSuffix is appended to derived output names when encrypting and
// stripped when decrypting.
const SealedSuffix = ".sealed"

// ResolveInputs takes user-provided paths/globs/directories and returns the
// matching files. forDecrypt selects *.sealed artifacts; otherwise any
// regular file that is not already a .sealed artifact matches.
func ResolveInputs(patterns []string, forDecrypt bool) ([]string, error) {
	var files []string
	seen := make(map[string]bool) // Deduplicate.

	for _, pattern := range patterns {
		resolved, err := resolvePattern(pattern, forDecrypt)
		if err != nil {
			return nil, err
		}

		for _, f := range resolved {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	if len(files) == 0 {
		return nil, serrors.ErrNoFilesFound
	}

	return files, nil
}

func resolvePattern(pattern string, forDecrypt bool) ([]string, error) {
	// Check if it's a directory.
	info, err := os.Stat(pattern)
	if err == nil && info.IsDir() {
		return findFilesInDir(pattern, forDecrypt)
	}

	// Check if it contains glob characters.
	if strings.ContainsAny(pattern, "*?[") {
		return expandGlob(pattern, forDecrypt)
	}

	// Treat as literal file path.
	if _, err := os.Stat(pattern); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", serrors.ErrFileNotFound, pattern)
	}

	if forDecrypt && !isSealedFile(pattern) {
		return nil, fmt.Errorf("file is not a %s artifact: %s", SealedSuffix, pattern)
	}
	if !forDecrypt && isSealedFile(pattern) {
		return nil, fmt.Errorf("file is already a %s artifact: %s", SealedSuffix, pattern)
	}

	return []string{pattern}, nil
}

func expandGlob(pattern string, forDecrypt bool) ([]string, error) {
	// doublestar for ** support.
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var filtered []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if isSealedFile(m) == forDecrypt {
			filtered = append(filtered, m)
		}
	}

	return filtered, nil
}

func findFilesInDir(dir string, forDecrypt bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		// Skip irregular files such as sockets, pipes, devices, etc.
		if !d.Type().IsRegular() {
			return nil
		}
		if isSealedFile(path) == forDecrypt {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func isSealedFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), SealedSuffix)
}

// DeriveOutputPath maps an input path to its default output path:
// X becomes X.sealed when encrypting, and X.sealed becomes X when
// decrypting. Decrypting a file without the suffix yields "", meaning the
// caller must supply an explicit output path.
func DeriveOutputPath(inputPath string, forDecrypt bool) string {
	if !forDecrypt {
		return inputPath + SealedSuffix
	}
	if isSealedFile(inputPath) {
		return strings.TrimSuffix(inputPath, SealedSuffix)
	}
	return ""
}
