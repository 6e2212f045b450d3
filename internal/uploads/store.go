// Package uploads stores submitted document files on disk and hands back
// the references persisted alongside an application.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"govportal/internal/common/errors"
)

// Store writes uploaded documents under a single directory. Stored names
// are prefixed with the upload timestamp so originals never collide.
type Store struct {
	dir          string
	maxDocuments int
	now          func() time.Time
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, maxDocuments int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir, maxDocuments: maxDocuments, now: time.Now}, nil
}

// MaxDocuments returns the per-application attachment limit.
func (s *Store) MaxDocuments() int {
	return s.maxDocuments
}

// Document is one incoming file.
type Document struct {
	Filename string
	Content  io.Reader
}

// SaveAll persists the documents and returns their stored references. The
// whole batch is rejected when it exceeds the attachment limit.
func (s *Store) SaveAll(docs []Document) ([]string, error) {
	if len(docs) > s.maxDocuments {
		return nil, errors.NewTooManyDocumentsError(len(docs), s.maxDocuments)
	}

	refs := make([]string, 0, len(docs))
	for _, doc := range docs {
		ref, err := s.save(doc)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (s *Store) save(doc Document) (string, error) {
	name := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + sanitizeFilename(doc.Filename)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create document file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, doc.Content); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return name, nil
}

// sanitizeFilename strips any path components and characters that could
// escape the upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "document"
	}
	return name
}

// EncodeRefs joins stored references into the single text column the
// application row carries.
func EncodeRefs(refs []string) string {
	return strings.Join(refs, ",")
}

// DecodeRefs splits a stored documents column back into references.
func DecodeRefs(encoded string) []string {
	if strings.TrimSpace(encoded) == "" {
		return nil
	}
	parts := strings.Split(encoded, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
