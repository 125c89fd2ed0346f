package rpm

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"chainguard.dev/apko/pkg/apk/fs"
	"github.com/cavaliergopher/rpm"
	"github.com/go-logr/logr"
	"github.com/klauspost/compress/zstd"
	"github.com/openSUSE/venvjail/pkg/packages"
	"github.com/sassoftware/go-rpmutils/cpio"
	"github.com/ulikunitz/xz"
)

type PackageKeeper struct{}

// Unpack reads the package header and expands the cpio payload into
// the root filesystem.
func (p *PackageKeeper) Unpack(ctx context.Context, pkgFile string, rootfs fs.FullFS) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("pkg", pkgFile)
	log.V(4).Info("unpacking rpm")

	f, err := os.Open(pkgFile)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	pkg, err := rpm.Read(f)
	if err != nil {
		return fmt.Errorf("reading package header: %w", err)
	}

	compression := pkg.PayloadCompression()
	log.V(6).Info("detected payload compression", "compression", compression, "supported", supportedRPMCompressionTypes)
	if !slices.Contains(supportedRPMCompressionTypes, compression) {
		return fmt.Errorf("unsupported compression: %s", compression)
	}

	var reader io.Reader

	switch compression {
	case compressionXZ:
		xzReader, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating xz reader: %w", err)
		}
		reader = xzReader
	case compressionGzip:
		gzipReader, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating gzip reader: %w", err)
		}
		reader = gzipReader
	case compressionZstd:
		zstdReader, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("creating zstd reader: %w", err)
		}
		defer zstdReader.Close()
		reader = zstdReader
	}

	if format := pkg.PayloadFormat(); format != "cpio" {
		return fmt.Errorf("unsupported payload format: %s", format)
	}

	return p.Extract(ctx, rootfs, reader)
}

// Extract the contents of a cpio stream from rs to the root filesystem
func (p *PackageKeeper) Extract(ctx context.Context, rootfs fs.FullFS, rs io.Reader) error {
	log := logr.FromContextOrDiscard(ctx)

	linkMap := make(map[int][]string)

	stream := cpio.NewReader(rs)

	for {
		entry, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}

		// sanitize path
		target := path.Clean(entry.Filename())
		for strings.HasPrefix(target, "../") {
			target = target[3:]
		}
		target = filepath.Join("/", filepath.FromSlash(target))
		if !strings.HasPrefix(target, string(filepath.Separator)) && "/" != target {
			// this shouldn't happen due to the sanitization above but always check
			return fmt.Errorf("invalid cpio path %q", entry.Filename())
		}
		// create the parent directory if it doesn't exist.
		if dir := filepath.Dir(target); dir != "" {
			if _, err := rootfs.Stat(dir); err != nil {
				if os.IsNotExist(err) {
					log.V(2).Info("creating parent directory", "path", dir)
					if err := rootfs.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("creating directory: %w", err)
					}
				} else {
					return fmt.Errorf("checking directory: %w", err)
				}
			}
		}

		switch entry.Mode() &^ 07777 {
		case cpio.S_ISCHR:
			// no makedev support
			continue
		case cpio.S_ISBLK:
			// no makedev support
			continue
		case cpio.S_ISDIR:
			log.V(8).Info("creating directory", "path", target)
			m := os.FileMode(entry.Mode()).Perm()
			if err := rootfs.Mkdir(target, m); err != nil && !os.IsExist(err) {
				return fmt.Errorf("creating dir: %w", err)
			}
		case cpio.S_ISFIFO:
			// skip
			continue
		case cpio.S_ISLNK:
			buf := make([]byte, entry.Filesize())
			if _, err := stream.Read(buf); err != nil {
				return fmt.Errorf("reading symlink name: %w", err)
			}
			filename := string(buf)
			log.V(7).Info("creating symlink", "path", target)
			if err := rootfs.Symlink(filename, target); err != nil {
				if os.IsExist(err) {
					log.V(7).Info("skipping symlink since the target already exists", "path", target)
					continue
				}
				return fmt.Errorf("creating symlink: %w", err)
			}
		case cpio.S_ISREG:
			log.V(8).Info("creating file", "path", target)
			// save hardlinks until after the target is written
			if entry.Nlink() > 1 && entry.Filesize() == 0 {
				l, ok := linkMap[entry.Ino()]
				if !ok {
					l = make([]string, 0)
				}
				l = append(l, target)
				linkMap[entry.Ino()] = l
				continue
			}

			f, err := rootfs.Create(target)
			if err != nil {
				return fmt.Errorf("creating file '%s': %w", target, err)
			}
			written, err := io.Copy(f, stream)
			if err != nil {
				return fmt.Errorf("copying file: %w", err)
			}
			if written != int64(entry.Filesize()) {
				return fmt.Errorf("short write")
			}
			if err := f.Close(); err != nil {
				return err
			}

			// fix permissions
			fileMode := os.FileMode(entry.Mode()).Perm()
			log.V(9).Info("updating file permissions", "file", target, "permissions", fileMode)
			if err := rootfs.Chmod(target, fileMode); err != nil {
				return fmt.Errorf("chmodding file %s: %w", target, err)
			}

			// Create hardlinks after the file content is written.
			if entry.Nlink() > 1 && entry.Filesize() > 0 {
				l, ok := linkMap[entry.Ino()]
				if !ok {
					return fmt.Errorf("hardlinks missing")
				}

				for _, t := range l {
					log.V(2).Info("creating hardlink", "target", target, "path", t)
					if err := rootfs.Link(target, t); err != nil {
						if os.IsExist(err) {
							log.V(2).Info("skipping hardlink since the target already exists", "target", target, "path", t)
							continue
						}
						return fmt.Errorf("creating hardlink: %w", err)
					}
				}
			}
		default:
			return fmt.Errorf("unknown file mode 0%o for %s", entry.Mode(), entry.Filename())
		}
	}

	return nil
}

// TrackInfo reads the package header and renders the seven-field
// maintenance track line: name, epoch, version, release, arch,
// disturl and a trailing placeholder.
func (p *PackageKeeper) TrackInfo(ctx context.Context, pkgFile string) (string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("pkg", pkgFile)
	log.V(4).Info("querying rpm header")

	pkg, err := rpm.Open(pkgFile)
	if err != nil {
		return "", fmt.Errorf("reading package header: %w", err)
	}

	// rpm reports "(none)" for packages without an epoch
	epoch := "(none)"
	if tag := pkg.Header.GetTag(tagEpoch); tag != nil {
		epoch = strconv.FormatInt(tag.Int64(), 10)
	}
	disturl := packages.TrackPlaceholder
	if tag := pkg.Header.GetTag(tagDistURL); tag != nil {
		disturl = tag.String()
	}

	fields := []string{
		pkg.Name(),
		epoch,
		pkg.Version(),
		pkg.Release(),
		pkg.Architecture(),
		disturl,
		packages.TrackPlaceholder,
	}
	return strings.Join(fields, "|"), nil
}
