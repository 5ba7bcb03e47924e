package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/kazuhira-dev/funcall"
)

type writeFileArgs struct {
	FilePath string `json:"file_path" description:"Path of the file to write, relative to the workspace."`
	Content  string `json:"content" description:"Full content to write into the file."`
}

func (w *Workspace) writeFileTool() (funcall.Tool, error) {
	return funcall.NewTool("write_file", "Writes content to the given file, replacing what was there.", w.writeFile)
}

func (w *Workspace) writeFile(_ context.Context, args writeFileArgs) (string, error) {
	path, err := w.resolve(args.FilePath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(args.Content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", args.FilePath, err)
	}
	return fmt.Sprintf("wrote %d bytes to %s", len(args.Content), args.FilePath), nil
}

type makeDirsArgs struct {
	Path string `json:"path" description:"Directory path to create, relative to the workspace; parents are created as needed."`
}

func (w *Workspace) makeDirsTool() (funcall.Tool, error) {
	return funcall.NewTool("make_dirs", "Creates a directory, including any missing parents.", w.makeDirs)
}

func (w *Workspace) makeDirs(_ context.Context, args makeDirsArgs) (string, error) {
	path, err := w.resolve(args.Path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("make dirs %s: %w", args.Path, err)
	}
	return "created " + args.Path, nil
}
