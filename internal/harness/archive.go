package harness

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jthornber/smq/internal/storage"
	"github.com/jthornber/smq/pkg/compression"
	"github.com/jthornber/smq/pkg/errors"
)

// CompressOutputs gzips every OutputFiles entry present in dir, writing
// each alongside the original as name+".gz". Missing files are skipped.
func (h *Harness) CompressOutputs(dir string) error {
	gz := compression.NewGzipCompressor(compression.LevelBest)

	for _, name := range OutputFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrap(errors.CodeWriterError, "failed to read "+name+" for compression", err)
		}

		compressed, err := gz.Compress(data)
		if err != nil {
			return errors.Wrap(errors.CodeWriterError, "failed to compress "+name, err)
		}

		if err := os.WriteFile(path+".gz", compressed, 0o644); err != nil {
			return errors.Wrap(errors.CodeWriterError, "failed to write "+name+".gz", err)
		}
		h.Logger.Debug("compressed %s (%d -> %d bytes)", name, len(data), len(compressed))
	}

	return nil
}

// Archive uploads every OutputFiles entry present in dir (preferring the
// gzipped copy if CompressOutputs already produced one) to store under
// prefix, keyed by file name.
func (h *Harness) Archive(ctx context.Context, store storage.Storage, dir, prefix string) error {
	for _, name := range OutputFiles {
		localPath := filepath.Join(dir, name)
		key := filepath.Join(prefix, name)

		if gzPath := localPath + ".gz"; fileExists(gzPath) {
			localPath = gzPath
			key += ".gz"
		} else if !fileExists(localPath) {
			continue
		}

		if err := store.UploadFile(ctx, key, localPath); err != nil {
			return errors.Wrap(errors.CodeStorageError, "failed to archive "+name, err)
		}
		h.Logger.Debug("archived %s to %s", localPath, key)
	}

	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
