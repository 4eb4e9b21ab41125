package sysinfo

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// UnknownType is the file type of entries without a usable suffix.
const UnknownType = "unknown"

// EntryFact is the classified metadata of a single entry.
type EntryFact struct {
	// Path is the entry path as discovered.
	Path string `json:"path"`
	// Size is the byte length reported by lstat.
	Size uint64 `json:"size"`
	// FileType is the suffix of the final path component, or UnknownType.
	FileType string `json:"file_type"`
	// Owner is the numeric user id owning the entry.
	Owner uint32 `json:"owner"`
}

// Classify resolves the entry's own metadata, without dereferencing symlinks,
// and returns its fact. It returns false if the metadata cannot be read.
func Classify(e Entry) (EntryFact, bool) {
	size, owner, err := lstat(e.Path)
	if err != nil {
		return EntryFact{}, false
	}

	return EntryFact{
		Path:     e.Path,
		Size:     size,
		FileType: FileType(e.Path),
		Owner:    owner,
	}, true
}

// FileType returns the text after the last '.' of the final path component.
//
// Names without a dot, names whose only dot is the leading one (".bashrc"),
// names ending in a dot and suffixes that are not valid UTF-8 are UnknownType.
// Case is preserved.
func FileType(path string) string {
	name := filepath.Base(path)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return UnknownType
	}

	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return UnknownType
	}

	ext := name[i+1:]
	if ext == "" || !utf8.ValidString(ext) {
		return UnknownType
	}

	return ext
}
