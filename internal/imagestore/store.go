package imagestore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrNotFound indicates no registration image exists for the username.
var ErrNotFound = errors.New("registration image not found")

// registeredImageName is the object name of a user's enrollment photo.
const registeredImageName = "registered_face.png"

// Store keeps one reference image per username.
type Store interface {
	// Save stores (or replaces) the registration image.
	Save(ctx context.Context, username string, data []byte) error
	// ReadBytes returns the registration image or ErrNotFound.
	ReadBytes(ctx context.Context, username string) ([]byte, error)
}

// objectPath maps a username to a slash-separated relative path.
func objectPath(username string) (string, error) {
	name := strings.TrimSpace(username)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("invalid username %q", username)
	}
	return path.Join(name, registeredImageName), nil
}
