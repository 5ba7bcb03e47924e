package tools

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/kazuhira-dev/funcall"
)

type searchFilesArgs struct {
	DirectoryPath string `json:"directory_path" description:"Directory to search under, relative to the workspace."`
	SearchString  string `json:"search_string" description:"Text to look for; space-separated terms must all match a line."`
	Depth         int    `json:"depth,omitempty" description:"How deep to descend (default 1)."`
	CaseSensitive bool   `json:"case_sensitive,omitempty" description:"Match case exactly (default false)."`
	MaxResults    int    `json:"max_results,omitempty" description:"Stop after this many matches (default 5)."`
}

// searchHit is one matching line.
type searchHit struct {
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
	Line       string `json:"line_content"`
}

func (w *Workspace) searchFilesTool() (funcall.Tool, error) {
	return funcall.NewTool("search_files",
		"Searches files under the given directory for lines containing the search string.", w.searchFiles)
}

func (w *Workspace) searchFiles(_ context.Context, args searchFilesArgs) ([]searchHit, error) {
	root, err := w.resolve(args.DirectoryPath)
	if err != nil {
		return nil, err
	}
	depth := args.Depth
	if depth <= 0 {
		depth = 1
	}
	limit := args.MaxResults
	if limit <= 0 {
		limit = 5
	}
	terms := strings.Fields(args.SearchString)
	if !args.CaseSensitive {
		for i, t := range terms {
			terms[i] = strings.ToLower(t)
		}
	}

	hits := []searchHit{}
	var walk func(dir, rel string, level int)
	walk = func(dir, rel string, level int) {
		if level > depth || len(hits) >= limit {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return // unreadable directories are skipped, not fatal
		}
		for _, e := range entries {
			if len(hits) >= limit {
				return
			}
			relPath := filepath.Join(rel, e.Name())
			full := filepath.Join(dir, e.Name())
			if e.IsDir() {
				walk(full, relPath, level+1)
				continue
			}
			w.searchInFile(full, relPath, terms, args.CaseSensitive, limit, &hits)
		}
	}
	walk(root, args.DirectoryPath, 1)
	return hits, nil
}

func (w *Workspace) searchInFile(path, rel string, terms []string, caseSensitive bool, limit int, hits *[]searchHit) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		haystack := line
		if !caseSensitive {
			haystack = strings.ToLower(line)
		}
		matched := len(terms) > 0
		for _, t := range terms {
			if !strings.Contains(haystack, t) {
				matched = false
				break
			}
		}
		if matched {
			*hits = append(*hits, searchHit{FilePath: rel, LineNumber: lineNo, Line: strings.TrimSpace(line)})
			if len(*hits) >= limit {
				return
			}
		}
	}
}
