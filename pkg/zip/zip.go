// Package zip bundles a mockup run's product images into a single archive
// for download.
package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Asset is one file to place in the archive.
type Asset struct {
	Filename string
	Data     []byte
}

// ArchiveAssets writes the assets into a ZIP archive in the given order.
func ArchiveAssets(assets []Asset) ([]byte, error) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, asset := range assets {
		w, err := zw.Create(asset.Filename)
		if err != nil {
			return nil, fmt.Errorf("zip: create %s: %w", asset.Filename, err)
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil, fmt.Errorf("zip: write %s: %w", asset.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: close archive: %w", err)
	}
	return buf.Bytes(), nil
}
