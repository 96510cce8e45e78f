package host

import (
	"context"
	"errors"
	"fmt"
	"os"
)

const (
	// ViewerClass is the entity class excluded from scene listings.
	ViewerClass = "Viewer"
	// ReadClass is the class inspected for disconnected inputs by default.
	ReadClass = "Read"
)

// ErrUnknownEntity is returned when a write names an origin the host cannot resolve.
var ErrUnknownEntity = errors.New("unknown scene entity")

// Scene is the read-only query surface of the host application.
type Scene interface {
	// SceneEntities lists entity names, sorted, excluding viewers.
	SceneEntities(ctx context.Context) ([]string, error)
	EntityExists(ctx context.Context, name string) (bool, error)
	EntitiesWithErrors(ctx context.Context) ([]string, error)
	// EntitiesMatching returns entities whose name matches pattern from its
	// first character on.
	EntitiesMatching(ctx context.Context, pattern string) ([]string, error)
	// DisconnectedInputs returns entities of the class whose output feeds nothing.
	DisconnectedInputs(ctx context.Context, class string) ([]string, error)
	EntitiesOfClass(ctx context.Context, class string) ([]string, error)
}

// WriteRequest is everything the host needs to render one stream.
type WriteRequest struct {
	Origin     string
	Path       string
	StartFrame int
	EndFrame   int
	// Manipulations are applied ahead of the origin in this order.
	Manipulations []string
}

// String renders the request for logs.
func (r WriteRequest) String() string {
	return fmt.Sprintf("%s -> %s [%d-%d] %v", r.Origin, r.Path, r.StartFrame, r.EndFrame, r.Manipulations)
}

// Dispatcher performs the terminal write. A returned error means nothing
// usable was written; implementations clean up their temporaries either way.
type Dispatcher interface {
	Dispatch(ctx context.Context, req WriteRequest) error
}

// Host is a full collaborator: scene queries plus the write operation.
type Host interface {
	Scene
	Dispatcher
}

// PathProber is an optional capability letting path nodes verify that an
// output directory exists before the stream is written.
type PathProber interface {
	PathExists(ctx context.Context, path string) (bool, error)
}

// WithLocalPaths decorates h with PathProber backed by the local filesystem.
func WithLocalPaths(h Host) Host {
	return &localPaths{Host: h}
}

type localPaths struct {
	Host
}

func (l *localPaths) PathExists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to probe path %s: %w", path, err)
}
