package packages

import (
	"context"

	"chainguard.dev/apko/pkg/apk/fs"
)

// TrackPlaceholder fills track-file fields that have no meaningful
// value for a given archive kind.
const TrackPlaceholder = "None"

// PackageManager unpacks a binary package into a root filesystem and
// reports the metadata line recorded in the maintenance track file.
type PackageManager interface {
	Unpack(ctx context.Context, pkg string, rootfs fs.FullFS) error
	TrackInfo(ctx context.Context, pkg string) (string, error)
}
