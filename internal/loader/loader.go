// Package loader reads TypeScript documents from disk or from an fs.FS.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/goliatone/go-typescaf/pkg/schema"
)

// Suffixes tried, in order, when resolving an extensionless module path.
var moduleCandidates = []string{".ts", ".tsx", ".d.ts", "/index.ts", "/index.tsx", "/index.d.ts"}

// Loader resolves schema.Sources into Documents.
type Loader struct {
	fs fs.FS
}

// New returns a Loader. fsys backs SourceKindFS sources and may be nil when
// only file sources are used.
func New(fsys fs.FS) *Loader {
	return &Loader{fs: fsys}
}

// Load fetches a document from the provided source.
func (l *Loader) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if src == nil {
		return schema.Document{}, errors.New("loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case schema.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case schema.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	default:
		err = errors.New("loader: unsupported source kind")
	}
	if err != nil {
		return schema.Document{}, err
	}

	return schema.NewDocument(src, data)
}

// Module resolves an extensionless module path against the fs, trying the
// TypeScript file and index candidates. It returns false when nothing
// matches.
func (l *Loader) Module(ctx context.Context, modulePath string) (schema.Document, bool) {
	if l.fs == nil {
		return schema.Document{}, false
	}
	base := strings.TrimPrefix(path.Clean(modulePath), "./")
	for _, suffix := range moduleCandidates {
		doc, err := l.Load(ctx, schema.SourceFromFS(base+suffix))
		if err == nil {
			return doc, true
		}
	}
	return schema.Document{}, false
}

func loadFile(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("loader: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(name)
}
