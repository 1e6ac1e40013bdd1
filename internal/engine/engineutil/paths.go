// Package engineutil provides path and dependency resolution shared by the
// local model engines.
package engineutil

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Environment variable names used for path resolution.
const (
	envCacheDir = "CACHE_DIR"
)

// Common application directory constants.
const (
	appName       = "curriculum-audio"
	modelsDirName = "models"
	tmpDir        = "/tmp"
	dotCache      = ".cache"
)

// Error messages and formats.
const (
	errModelNotFoundMsg               = "model not found"
	errBinaryNotFoundMsg              = "required binary not installed"
	errFmtCouldNotResolveAbsolutePath = "could not resolve absolute path for %q: %w"
	errFmtErrorCheckingModelPath      = "error checking model path %q: %w"
	errFmtModelNotFound               = "%w: %s (searched current directory, %s/, and the cache)"
	errFmtBinaryNotFound              = "%w: %s (install it and ensure it is on PATH)"
)

// Static errors for missing local engine prerequisites. Both are fatal for
// the engine that needs them, never per-item.
var (
	ErrModelNotFound  = errors.New(errModelNotFoundMsg)
	ErrBinaryNotFound = errors.New(errBinaryNotFoundMsg)
)

// CacheDir returns the application's cache directory, honoring a CACHE_DIR
// override and falling back to a user-based cache directory.
func CacheDir() string {
	if cacheDir := os.Getenv(envCacheDir); cacheDir != "" {
		return cacheDir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(tmpDir, appName, dotCache)
	}

	return filepath.Join(homeDir, dotCache, appName)
}

// resolveSinglePath checks whether a file exists at path. A missing file is
// signalled with found=false and no error; any other filesystem error stops
// the search.
func resolveSinglePath(path string) (resolvedPath string, found bool, err error) {
	_, statErr := os.Stat(path)
	if statErr == nil {
		absPath, errAbs := filepath.Abs(path)
		if errAbs != nil {
			return "", false, fmt.Errorf(
				errFmtCouldNotResolveAbsolutePath,
				path,
				errAbs,
			)
		}

		return absPath, true, nil
	} else if !os.IsNotExist(statErr) {
		return "", false, fmt.Errorf(errFmtErrorCheckingModelPath, path, statErr)
	}

	return "", false, nil
}

// ResolveModelPath resolves the absolute path of a model artifact by
// probing candidate locations in order: the name itself (absolute or
// relative), a local models directory, and the cache. The first existing
// path wins; if none exists the engine cannot start.
func ResolveModelPath(modelName string) (string, error) {
	candidatePaths := []string{
		modelName,
		filepath.Join(modelsDirName, modelName),
		filepath.Join(CacheDir(), modelsDirName, modelName),
	}

	for _, path := range candidatePaths {
		resolvedPath, found, err := resolveSinglePath(path)
		if err != nil {
			return "", err
		}

		if found {
			return resolvedPath, nil
		}
	}

	return "", fmt.Errorf(errFmtModelNotFound, ErrModelNotFound, modelName, modelsDirName)
}

// ResolveBinary locates a synthesis binary on PATH. A missing binary is a
// fatal precondition for the engine that requires it.
func ResolveBinary(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf(errFmtBinaryNotFound, ErrBinaryNotFound, name)
	}

	return path, nil
}
