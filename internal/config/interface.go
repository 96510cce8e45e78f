package config

import "context"

// SnapshotLoader reads a saved graph from a path.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, path string) (*Snapshot, error)
}

// SnapshotSaver writes a graph snapshot to a path.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, path string, snap *Snapshot) error
}

// SceneLoader reads scene descriptions from one or more files or directories.
type SceneLoader interface {
	LoadScene(ctx context.Context, paths ...string) (*Scene, error)
}
