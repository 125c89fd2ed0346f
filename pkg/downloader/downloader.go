package downloader

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-getter"
)

type Downloader struct {
	cacheDir string
}

func NewDownloader(cacheDir string) (*Downloader, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}
	return &Downloader{cacheDir: cacheDir}, nil
}

// Fetch resolves a repository reference to a local directory. A path
// that already exists locally is used as-is; anything else is handed
// to go-getter, so repositories can also live behind http, git or
// object-storage URLs.
func (d *Downloader) Fetch(ctx context.Context, src string) (string, error) {
	log := logr.FromContextOrDiscard(ctx)

	if info, err := os.Stat(src); err == nil && info.IsDir() {
		log.V(1).Info("using local repository", "src", src)
		return src, nil
	}

	// download into a predictable location so that we can avoid
	// repeated downloads
	dst := filepath.Join(d.cacheDir, HashString(src))
	log.Info("fetching repository", "src", src, "dst", dst)

	client := &getter.Client{
		Ctx:             ctx,
		Src:             src,
		Dst:             dst,
		Mode:            getter.ClientModeDir,
		DisableSymlinks: true,
	}
	if err := client.Get(); err != nil {
		log.Error(err, "failed to fetch repository")
		return "", err
	}

	return dst, nil
}
