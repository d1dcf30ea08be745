package swagger

import (
	"embed"
	"errors"
	"io/fs"
	"os"
)

//go:embed docs/*
var swaggerDocs embed.FS

// loadDoc prefers the embedded document and falls back to the working tree,
// which lets a regenerated doc.json show up without a rebuild.
func loadDoc(embedPath string, diskPath string) ([]byte, error) {
	data, err := swaggerDocs.ReadFile(embedPath)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return os.ReadFile(diskPath)
}
