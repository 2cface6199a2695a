// Package filex contains filesystem helpers for the client: data directory
// setup and reading locally picked media assets.
package filex

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// MaxAssetSize caps a single asset read into memory for upload.
const MaxAssetSize = 200 << 20

var ErrAssetTooLarge = errors.New("asset too large")

// EnsureDir creates dir (relative paths are resolved against the working
// directory) and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// LocalPath turns an asset URI into a filesystem path. Plain paths are
// returned unchanged; "file://" URIs are decoded.
func LocalPath(uri string) (string, error) {
	if !strings.HasPrefix(uri, "file://") {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse asset uri: %w", err)
	}
	return filepath.FromSlash(u.Path), nil
}

// ReadAsset reads the asset behind uri, refusing files above MaxAssetSize.
func ReadAsset(uri string) ([]byte, error) {
	path, err := LocalPath(uri)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxAssetSize {
		return nil, fmt.Errorf("%s: %w", path, ErrAssetTooLarge)
	}

	return os.ReadFile(path)
}
