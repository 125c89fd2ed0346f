package archiveutil

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"

	"chainguard.dev/apko/pkg/apk/fs"
	"github.com/go-logr/logr"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// UntarFunc expands a possibly-compressed tar stream into a root
// filesystem.
type UntarFunc func(ctx context.Context, r io.Reader, rootfs fs.FullFS) error

// Guntar is the same as Untar, but it first decodes the gzipped archive.
func Guntar(ctx context.Context, r io.Reader, rootfs fs.FullFS) error {
	gzp, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gzp.Close()
	return Untar(ctx, gzp, rootfs)
}

// XZuntar is the same as Untar, but it first decodes the xz archive.
func XZuntar(ctx context.Context, r io.Reader, rootfs fs.FullFS) error {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return err
	}
	return Untar(ctx, xzr, rootfs)
}

// Zuntar is the same as Untar, but it first decodes the zstandard archive.
func Zuntar(ctx context.Context, r io.Reader, rootfs fs.FullFS) error {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return err
	}
	defer zr.Close()
	return Untar(ctx, zr.IOReadCloser(), rootfs)
}

// Untar expands a tar archive into the given root filesystem.
func Untar(ctx context.Context, r io.Reader, rootfs fs.FullFS) error {
	log := logr.FromContextOrDiscard(ctx)
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			log.Error(err, "failed to read file from archive")
			return err
		case header == nil:
			continue
		}

		target := filepath.Clean("/" + header.Name)

		switch header.Typeflag {
		case tar.TypeDir:
			log.V(5).Info("creating directory", "target", target)
			if err := rootfs.MkdirAll(target, os.FileMode(header.Mode).Perm()); err != nil {
				log.Error(err, "failed to create directory", "target", target)
				return err
			}
		case tar.TypeSymlink:
			log.V(5).Info("creating symlink", "target", target, "linkname", header.Linkname)
			if err := rootfs.Symlink(header.Linkname, target); err != nil {
				if os.IsExist(err) {
					continue
				}
				log.Error(err, "failed to create symlink", "target", target)
				return err
			}
		case tar.TypeLink:
			linkTarget := filepath.Clean("/" + header.Linkname)
			log.V(5).Info("creating hardlink", "target", target, "linkname", linkTarget)
			if err := rootfs.Link(linkTarget, target); err != nil {
				if os.IsExist(err) {
					continue
				}
				log.Error(err, "failed to create hardlink", "target", target)
				return err
			}
		case tar.TypeReg:
			log.V(5).Info("creating file", "target", target, "mode", header.Mode)
			if err := rootfs.MkdirAll(filepath.Dir(target), 0755); err != nil {
				log.Error(err, "failed to create parent directory", "target", target)
				return err
			}
			f, err := rootfs.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				log.Error(err, "failed to open file", "target", target)
				return err
			}

			if _, err := io.Copy(f, tr); err != nil {
				log.Error(err, "failed to extract file", "target", target)
				_ = f.Close()
				return err
			}
			_ = f.Close()
		}
	}
}
