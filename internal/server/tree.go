package server

import (
	"path/filepath"

	"famedia/internal/app"
	"famedia/internal/config"
)

// DirNode is one directory of the media tree as shown to users.
type DirNode struct {
	Name           string    `json:"name"`
	InternalPath   string    `json:"internal_path"`
	ExternalPath   string    `json:"external_path"`
	Subdirectories []DirNode `json:"subdirectories"`
}

// BuildTree walks the media root. Directories named in excluded are left out
// together with everything below them; unreadable directories appear without
// children. The root is named after its external path.
func BuildTree(fsys app.FileSystem, mount config.Mount, excluded []string) *DirNode {
	skip := make(map[string]struct{}, len(excluded))
	for _, name := range excluded {
		skip[name] = struct{}{}
	}

	root := buildNode(fsys, mount, skip, mount.Internal)
	if root != nil {
		root.Name = mount.External
	}
	return root
}

func buildNode(fsys app.FileSystem, mount config.Mount, skip map[string]struct{}, path string) *DirNode {
	name := filepath.Base(path)
	if _, ok := skip[name]; ok {
		return nil
	}

	node := &DirNode{
		Name:           name,
		InternalPath:   path,
		ExternalPath:   mount.ToExternal(path),
		Subdirectories: []DirNode{},
	}

	entries, err := fsys.ReadDir(path)
	if err != nil {
		return node
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if child := buildNode(fsys, mount, skip, filepath.Join(path, e.Name())); child != nil {
			node.Subdirectories = append(node.Subdirectories, *child)
		}
	}
	return node
}
