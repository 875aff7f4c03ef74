package domain

import (
	"context"
	"path"
	"strings"
)

// TaskFunc is the body of a task. It performs side effects only.
type TaskFunc func(ctx context.Context) error

// Task is a named unit of work in the pipeline.
type Task struct {
	Name string
	Run  TaskFunc
}

// Asset is one file flowing through a stage.
type Asset struct {
	// Path is slash-separated and relative to the stage base directory.
	Path    string
	Content []byte
}

// Ext returns the lowercased extension of the asset path, including the dot.
func (a Asset) Ext() string {
	return strings.ToLower(path.Ext(a.Path))
}

// WithExt returns a copy of the asset whose path carries ext instead of its current extension.
func (a Asset) WithExt(ext string) Asset {
	a.Path = strings.TrimSuffix(a.Path, path.Ext(a.Path)) + ext
	return a
}

// ReloadKind tells live-reload clients how to apply a change.
type ReloadKind string

const (
	// ReloadCSS swaps stylesheets in place.
	ReloadCSS ReloadKind = "css"
	// ReloadAsset refreshes images and other static assets.
	ReloadAsset ReloadKind = "asset"
	// ReloadPage performs a full page reload.
	ReloadPage ReloadKind = "page"
)
