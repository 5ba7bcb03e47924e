package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/kazuhira-dev/funcall"
)

// readCap bounds how much file content goes back to the model in one call.
const readCap = 48_000

type readFileArgs struct {
	FilePath string `json:"file_path" description:"Path of the file to read, relative to the workspace."`
}

func (w *Workspace) readFileTool() (funcall.Tool, error) {
	return funcall.NewTool("read_file", "Reads the contents of the given file.", w.readFile)
}

func (w *Workspace) readFile(_ context.Context, args readFileArgs) (string, error) {
	path, err := w.resolve(args.FilePath)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args.FilePath, err)
	}
	return clip(string(data), readCap), nil
}

// clip truncates s to at most max bytes, marking the cut so the model knows
// output was dropped.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "\n output is too long ..."
}
