package indexer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/codenav/codenav/pkg/types"
)

// Code file extensions recognized by the walker
var codeExtensions = map[string]bool{
	".go":   true,
	".py":   true,
	".js":   true,
	".ts":   true,
	".rs":   true,
	".java": true,
	".c":    true,
	".h":    true,
	".cpp":  true,
	".rb":   true,
	".sh":   true,
}

// Documentation file extensions recognized by the walker
var docExtensions = map[string]bool{
	".md":   true,
	".rst":  true,
	".txt":  true,
	".adoc": true,
}

// isCodeFile reports whether the path looks like an indexable code file
func isCodeFile(path string) bool {
	return codeExtensions[strings.ToLower(filepath.Ext(path))]
}

// isDocFile reports whether the path looks like an indexable documentation file
func isDocFile(path string) bool {
	return docExtensions[strings.ToLower(filepath.Ext(path))]
}

// classifyEntry derives entry type and priority from the file name.
// Documentation gets a taxonomy slot; code is always "source".
func classifyEntry(corpus types.Corpus, relPath string) (types.EntryType, int) {
	if corpus == types.CorpusCode {
		return types.EntrySource, 5
	}

	name := strings.ToLower(filepath.Base(relPath))
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	switch {
	case strings.HasPrefix(stem, "readme"):
		return types.EntryModuleReadme, 8
	case strings.Contains(stem, "changelog") || strings.Contains(stem, "changes") || strings.Contains(stem, "history"):
		return types.EntryChangelog, 4
	case strings.Contains(stem, "protocol") || strings.Contains(stem, "wire"):
		return types.EntryProtocolDoc, 7
	case strings.Contains(stem, "interface") || strings.Contains(stem, "spec") || strings.Contains(stem, "api"):
		return types.EntryInterfaceSpec, 7
	default:
		return types.EntryOther, 5
	}
}

// Module root markers, checked in order
var moduleMarkers = []string{"go.mod", "package.json", "pyproject.toml", "Cargo.toml"}

// findModuleOwner walks up from the file's directory towards the corpus
// root looking for the nearest enclosing module marker. Returns the module
// directory relative to root, or "" if none is found.
func findModuleOwner(root, absPath string) string {
	dir := filepath.Dir(absPath)
	for {
		for _, marker := range moduleMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				rel, err := filepath.Rel(root, dir)
				if err != nil {
					return ""
				}
				return filepath.ToSlash(rel)
			}
		}

		if dir == root || dir == filepath.Dir(dir) {
			return ""
		}
		dir = filepath.Dir(dir)
	}
}
