package local

import (
	"os"
	"path/filepath"

	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		dir := cfg.Dir
		if dir == "" {
			dir = filepath.Join(os.TempDir(), storage.DefaultDirName)
		}
		return NewStorage(dir)
	})
}
