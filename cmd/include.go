package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/openSUSE/venvjail/pkg/obs"
	"github.com/openSUSE/venvjail/pkg/patternfile"
)

var includeCmd = &cobra.Command{
	Use:   "include",
	Short: "generate an initial include-rpm file from a repository",
	RunE:  include,
}

const (
	flagAPIURL  = "apiurl"
	flagProject = "project"
	flagArch    = "arch"
	flagAll     = "all"
)

var extensionExp = regexp.MustCompile(`\.rpm$|\.deb$`)

func init() {
	addOBSFlags(includeCmd)
	includeCmd.Flags().StringP(flagExclude, "x", "exclude-rpm", "file with packages to exclude")
	includeCmd.Flags().Bool(flagAll, false, "list all the packages, ignoring the exclude file")
	_ = includeCmd.MarkFlagRequired(flagProject)
}

// addOBSFlags registers the flags shared by the commands that talk to
// the build service.
func addOBSFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flagAPIURL, "A", "https://api.opensuse.org", "build service API URL")
	cmd.Flags().StringP(flagProject, "p", "", "build service project")
	cmd.Flags().StringP(flagRepo, "r", "standard", "build service repository")
	cmd.Flags().StringP(flagArch, "a", "x86_64", "repository architecture")
}

func include(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	apiurl, _ := cmd.Flags().GetString(flagAPIURL)
	project, _ := cmd.Flags().GetString(flagProject)
	repo, _ := cmd.Flags().GetString(flagRepo)
	arch, _ := cmd.Flags().GetString(flagArch)

	client := obs.NewClient(apiurl)
	names, err := client.RepositoryBinaries(ctx, project, repo, arch)
	if err != nil {
		return err
	}
	// unversioned names, so the extension goes too
	for i, name := range names {
		names[i] = extensionExp.ReplaceAllString(name, "")
	}
	names, err = filterBinaryNames(cmd, names)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "# List of packages to include (use regular expressions)")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "# Packages from the repository")
	for _, name := range names {
		fmt.Fprintf(out, "%s.*\n", name)
	}
	return nil
}

// filterBinaryNames drops the names matched by the exclude file,
// unless --all was given.
func filterBinaryNames(cmd *cobra.Command, names []string) ([]string, error) {
	if all, _ := cmd.Flags().GetBool(flagAll); all {
		return names, nil
	}
	path, _ := cmd.Flags().GetString(flagExclude)
	exclude, err := patternfile.Load(path)
	if err != nil {
		return nil, err
	}
	var kept []string
	for _, name := range names {
		if exclude.Matches(name) {
			continue
		}
		kept = append(kept, name)
	}
	return kept, nil
}
