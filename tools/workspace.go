package tools

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kazuhira-dev/funcall"
)

// Workspace holds the root directory the file tools operate in.
type Workspace struct {
	Root string
}

// NewWorkspace creates a Workspace rooted at dir ("." when empty).
func NewWorkspace(dir string) *Workspace {
	if dir == "" {
		dir = "."
	}
	return &Workspace{Root: dir}
}

// resolve maps a tool-supplied path into the workspace and rejects escapes.
func (w *Workspace) resolve(path string) (string, error) {
	if path == "" {
		path = "."
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("absolute paths are not allowed: %s", path)
	}
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes the workspace: %s", path)
	}
	return filepath.Join(w.Root, clean), nil
}

// Register builds every built-in tool for w and registers it, along with the
// sentinel complete tool. A single bad registration aborts with that error;
// previously registered tools stay registered.
func (w *Workspace) Register(reg *funcall.Registry) error {
	builders := []func() (funcall.Tool, error){
		w.readFileTool,
		w.writeFileTool,
		w.makeDirsTool,
		w.listFilesTool,
		w.searchFilesTool,
	}
	for _, build := range builders {
		t, err := build()
		if err != nil {
			return err
		}
		reg.Register(t)
	}
	reg.Register(funcall.CompleteTool())
	return nil
}
