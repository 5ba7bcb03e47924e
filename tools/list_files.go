package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kazuhira-dev/funcall"
)

type listFilesArgs struct {
	DirectoryPath string `json:"directory_path" description:"Directory to explore, relative to the workspace."`
	Depth         int    `json:"depth,omitempty" description:"How deep to descend (default 1: the directory itself only)."`
	IncludeDirs   bool   `json:"include_directories,omitempty" description:"Include directories in the result (default false)."`
}

// listEntry is one row of a list_files result.
type listEntry struct {
	Name string `json:"name"`
	Type string `json:"type"` // "file" or "directory"
	Path string `json:"path"`
}

func (w *Workspace) listFilesTool() (funcall.Tool, error) {
	return funcall.NewTool("list_files", "Explores files and subdirectories under the given directory.", w.listFiles)
}

func (w *Workspace) listFiles(_ context.Context, args listFilesArgs) ([]listEntry, error) {
	root, err := w.resolve(args.DirectoryPath)
	if err != nil {
		return nil, err
	}
	depth := args.Depth
	if depth <= 0 {
		depth = 1
	}
	var out []listEntry
	var walk func(dir, rel string, level int) error
	walk = func(dir, rel string, level int) error {
		if level > depth {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("list %s: %w", rel, err)
		}
		for _, e := range entries {
			relPath := filepath.Join(rel, e.Name())
			if e.IsDir() {
				if args.IncludeDirs {
					out = append(out, listEntry{Name: e.Name(), Type: "directory", Path: relPath})
				}
				if err := walk(filepath.Join(dir, e.Name()), relPath, level+1); err != nil {
					return err
				}
				continue
			}
			out = append(out, listEntry{Name: e.Name(), Type: "file", Path: relPath})
		}
		return nil
	}
	if err := walk(root, args.DirectoryPath, 1); err != nil {
		return nil, err
	}
	return out, nil
}
