package deb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"chainguard.dev/apko/pkg/apk/fs"
	"github.com/go-logr/logr"
	"github.com/openSUSE/venvjail/pkg/archiveutil"
	"github.com/openSUSE/venvjail/pkg/packages"
	"pault.ag/go/debian/deb"
)

type PackageKeeper struct{}

const (
	dataXZ   = "/data.tar.xz"
	dataZstd = "/data.tar.zst"
	dataGzip = "/data.tar.gz"
)

// Unpack expands the data archive of a deb package into the root
// filesystem. The outer ar container is unpacked into memory first,
// the same way 'ar x' would.
func (p *PackageKeeper) Unpack(ctx context.Context, pkg string, rootfs fs.FullFS) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("pkg", pkg)
	log.V(4).Info("unpacking deb")

	f, err := os.Open(pkg)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	tmpFs := fs.NewMemFS()

	if err := archiveutil.Unar(ctx, f, tmpFs); err != nil {
		return err
	}

	// then we need to unpack the 'data.tar.X' file
	// that contains the filesystem

	if _, err := tmpFs.Stat(dataXZ); err == nil {
		return p.unpack(ctx, tmpFs, dataXZ, rootfs, archiveutil.XZuntar)
	}
	if _, err := tmpFs.Stat(dataZstd); err == nil {
		return p.unpack(ctx, tmpFs, dataZstd, rootfs, archiveutil.Zuntar)
	}
	if _, err := tmpFs.Stat(dataGzip); err == nil {
		return p.unpack(ctx, tmpFs, dataGzip, rootfs, archiveutil.Guntar)
	}

	return errors.New("unknown or unsupported data archive")
}

func (*PackageKeeper) unpack(ctx context.Context, src fs.FullFS, name string, dst fs.FullFS, untar archiveutil.UntarFunc) error {
	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("unpacking data archive", "name", name)
	f, err := src.Open(name)
	if err != nil {
		log.Error(err, "failed to open data archive", "name", name)
		return err
	}
	return untar(ctx, f, dst)
}

// TrackInfo renders the seven-field maintenance track line from the
// package control paragraph. Debian packages carry no epoch, release
// or disturl equivalents, so those fields hold placeholders.
func (p *PackageKeeper) TrackInfo(ctx context.Context, pkg string) (string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("pkg", pkg)
	log.V(4).Info("querying deb control")

	f, err := os.Open(pkg)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	d, err := deb.Load(f, pkg)
	if err != nil {
		return "", fmt.Errorf("reading control: %w", err)
	}

	fields := []string{
		d.Control.Package,
		packages.TrackPlaceholder,
		d.Control.Version.String(),
		packages.TrackPlaceholder,
		d.Control.Architecture.String(),
		packages.TrackPlaceholder,
		packages.TrackPlaceholder,
	}
	return strings.Join(fields, "|"), nil
}
