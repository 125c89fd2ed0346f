package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openSUSE/venvjail/pkg/obs"
	"github.com/openSUSE/venvjail/pkg/patternfile"
	"github.com/openSUSE/venvjail/pkg/selector"
)

var requiresCmd = &cobra.Command{
	Use:   "requires PACKAGE",
	Short: "list the requirements of a source package not covered by the environment",
	Args:  cobra.ExactArgs(1),
	RunE:  requires,
}

func init() {
	requiresCmd.Flags().StringP(flagAPIURL, "A", "https://api.opensuse.org", "build service API URL")
	requiresCmd.Flags().StringP(flagProject, "p", "", "build service project")
	requiresCmd.Flags().StringP(flagInclude, "i", "include-rpm", "file with the list of packages to install")
	requiresCmd.Flags().StringP(flagExclude, "x", "exclude-rpm", "file with packages to exclude")
	_ = requiresCmd.MarkFlagRequired(flagProject)
}

func requires(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	apiurl, _ := cmd.Flags().GetString(flagAPIURL)
	project, _ := cmd.Flags().GetString(flagProject)

	client := obs.NewClient(apiurl)
	spec, err := client.SourceSpec(ctx, project, args[0])
	if err != nil {
		return err
	}
	reqs := obs.ParseRequires(spec)

	excludePath, _ := cmd.Flags().GetString(flagExclude)
	exclude, err := patternfile.Load(excludePath)
	if err != nil {
		return err
	}
	includePath, _ := cmd.Flags().GetString(flagInclude)
	include, err := patternfile.Load(includePath)
	if err != nil {
		return err
	}

	// the requirements already provided inside the environment are
	// not interesting
	var missing []string
	byName := make(map[string]obs.Requirement, len(reqs))
	for _, req := range reqs {
		byName[req.Name] = req
		if selector.Select(req.Name, exclude, include) == selector.Included {
			continue
		}
		missing = append(missing, req.Name)
	}
	sort.Strings(missing)

	for _, name := range missing {
		req := byName[name]
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(req.Name+" "+req.Constraint))
	}
	return nil
}
