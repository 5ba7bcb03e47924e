// Package tools provides the built-in workspace tools an agent registers
// through the funcall engine:
//
//   - read_file, write_file, make_dirs: file access rooted in a workspace dir
//   - list_files: bounded-depth directory exploration
//   - search_files: substring search across files with result caps
//   - complete: the sentinel tool that ends the conversation loop
//
// Every path argument is resolved inside the workspace root; escaping it is
// rejected before any I/O happens.
package tools
