package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chainguard.dev/apko/pkg/apk/fs"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"k8s.io/apimachinery/pkg/util/yaml"

	jailv1 "github.com/openSUSE/venvjail/pkg/api/v1"
	"github.com/openSUSE/venvjail/pkg/downloader"
	"github.com/openSUSE/venvjail/pkg/envutil"
	"github.com/openSUSE/venvjail/pkg/packages"
	"github.com/openSUSE/venvjail/pkg/packages/deb"
	"github.com/openSUSE/venvjail/pkg/packages/rpm"
	"github.com/openSUSE/venvjail/pkg/patternfile"
	"github.com/openSUSE/venvjail/pkg/relocate"
	"github.com/openSUSE/venvjail/pkg/selector"
	"github.com/openSUSE/venvjail/pkg/tracklog"
	"github.com/openSUSE/venvjail/pkg/venv"
)

var createCmd = &cobra.Command{
	Use:   "create DEST_DIR",
	Short: "create a relocatable virtual environment",
	Args:  cobra.ExactArgs(1),
	RunE:  create,
}

const (
	flagConfig             = "config"
	flagRelocate           = "relocate"
	flagRepo               = "repo"
	flagInclude            = "include"
	flagExclude            = "exclude"
	flagTrack              = "track"
	flagSystemSitePackages = "system-site-packages"
	flagNoRelocateShebang  = "no-relocate-shebang-list"
	flagCacheDir           = "cache-dir"
)

func init() {
	createCmd.Flags().StringP(flagConfig, "c", "", "path to a jail configuration file")
	createCmd.Flags().StringP(flagRelocate, "l", "/opt/venv", "relocated virtual environment directory")
	createCmd.Flags().StringP(flagRepo, "r", "/.build.binaries", "repository directory or URL")
	createCmd.Flags().StringP(flagInclude, "i", "include-rpm", "file with the list of packages to install")
	createCmd.Flags().StringP(flagExclude, "x", "exclude-rpm", "file with packages to exclude")
	createCmd.Flags().StringP(flagTrack, "t", "", "filename for the maintenance track file")
	createCmd.Flags().BoolP(flagSystemSitePackages, "s", false, "allow access to the global site-packages")
	createCmd.Flags().StringSlice(flagNoRelocateShebang, nil, "do not change the shebang in files matching these globs (relative to DEST_DIR)")
	createCmd.Flags().String(flagCacheDir, filepath.Join(os.TempDir(), "venvjail"), "directory that remote repositories are fetched into")

	_ = createCmd.MarkFlagFilename(flagConfig, ".yaml", ".yml")
	_ = createCmd.MarkFlagDirname(flagCacheDir)
}

func create(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logr.FromContextOrDiscard(ctx)

	destDir := args[0]

	configPath, _ := cmd.Flags().GetString(flagConfig)
	spec := jailv1.JailSpec{}
	if configPath != "" {
		var err error
		spec, err = readConfig(configPath)
		if err != nil {
			return err
		}
	}
	applyFlags(cmd, &spec)

	// where the venv will live at the end
	target := filepath.Join(envutil.ExpandEnv(spec.Relocate), strings.TrimPrefix(destDir, "/"))

	builder := &venv.Builder{SystemSitePackages: spec.SystemSitePackages}
	if err := builder.Create(ctx, destDir); err != nil {
		return err
	}

	exclude, err := patternfile.Load(spec.Exclude)
	if err != nil {
		return err
	}
	include, err := patternfile.Load(spec.Include)
	if err != nil {
		return err
	}

	cacheDir, _ := cmd.Flags().GetString(flagCacheDir)
	dl, err := downloader.NewDownloader(cacheDir)
	if err != nil {
		return err
	}
	repoDir, err := dl.Fetch(ctx, envutil.ExpandEnv(spec.Repository))
	if err != nil {
		return err
	}

	managers := map[string]packages.PackageManager{
		".rpm": &rpm.PackageKeeper{},
		".deb": &deb.PackageKeeper{},
	}
	rootfs := fs.DirFS(ctx, destDir)

	extensions := maps.Keys(managers)
	sort.Strings(extensions)

	var included, excluded []string
	for _, ext := range extensions {
		matches, err := filepath.Glob(filepath.Join(repoDir, "*"+ext))
		if err != nil {
			return err
		}
		for _, path := range matches {
			pkg := filepath.Base(path)
			if selector.Select(pkg, exclude, include) == selector.Excluded {
				log.V(1).Info("skipping package", "pkg", pkg)
				excluded = append(excluded, pkg)
				continue
			}
			included = append(included, pkg)

			// unpack the package over the environment
			if err := managers[filepath.Ext(path)].Unpack(ctx, path, rootfs); err != nil {
				return fmt.Errorf("unpacking %s: %w", pkg, err)
			}
		}
	}

	env := relocate.NewEnvironment(destDir, target)
	env.ShebangExclusions = spec.NoRelocateShebang
	if err := relocate.Fix(ctx, env); err != nil {
		return err
	}

	// the selection log helps tailor the include/exclude files
	if err := tracklog.WriteLog(filepath.Join(destDir, "packages.log"), included, excluded); err != nil {
		return err
	}

	if spec.Track != "" {
		if err := tracklog.WriteTrack(ctx, spec.Track, repoDir, included, managers); err != nil {
			return err
		}
	}

	log.Info("created virtual environment", "dest", destDir, "target", target,
		"included", len(included), "excluded", len(excluded))
	return nil
}

// applyFlags overlays explicitly-set command line flags onto the
// configuration, and fills in the flag defaults for anything still
// unset.
func applyFlags(cmd *cobra.Command, spec *jailv1.JailSpec) {
	if v, _ := cmd.Flags().GetString(flagRelocate); spec.Relocate == "" || cmd.Flags().Changed(flagRelocate) {
		spec.Relocate = v
	}
	if v, _ := cmd.Flags().GetString(flagRepo); spec.Repository == "" || cmd.Flags().Changed(flagRepo) {
		spec.Repository = v
	}
	if v, _ := cmd.Flags().GetString(flagInclude); spec.Include == "" || cmd.Flags().Changed(flagInclude) {
		spec.Include = v
	}
	if v, _ := cmd.Flags().GetString(flagExclude); spec.Exclude == "" || cmd.Flags().Changed(flagExclude) {
		spec.Exclude = v
	}
	if v, _ := cmd.Flags().GetString(flagTrack); cmd.Flags().Changed(flagTrack) {
		spec.Track = v
	}
	if v, _ := cmd.Flags().GetBool(flagSystemSitePackages); cmd.Flags().Changed(flagSystemSitePackages) {
		spec.SystemSitePackages = v
	}
	if v, _ := cmd.Flags().GetStringSlice(flagNoRelocateShebang); len(v) > 0 {
		spec.NoRelocateShebang = v
	}
}

func readConfig(s string) (jailv1.JailSpec, error) {
	f, err := os.Open(s)
	if err != nil {
		return jailv1.JailSpec{}, err
	}
	defer f.Close()

	var config jailv1.Jail
	if err := yaml.NewYAMLOrJSONDecoder(f, 4).Decode(&config); err != nil {
		return jailv1.JailSpec{}, err
	}
	return config.Spec, nil
}
