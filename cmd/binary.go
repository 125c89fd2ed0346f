package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openSUSE/venvjail/pkg/obs"
	"github.com/openSUSE/venvjail/pkg/pkgname"
)

var binaryCmd = &cobra.Command{
	Use:   "binary PACKAGE",
	Short: "list the binary packages built from a source package",
	Args:  cobra.ExactArgs(1),
	RunE:  binary,
}

func init() {
	addOBSFlags(binaryCmd)
	binaryCmd.Flags().StringP(flagExclude, "x", "exclude-rpm", "file with packages to exclude")
	binaryCmd.Flags().Bool(flagAll, false, "list all the packages, ignoring the exclude file")
	_ = binaryCmd.MarkFlagRequired(flagProject)
}

func binary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	apiurl, _ := cmd.Flags().GetString(flagAPIURL)
	project, _ := cmd.Flags().GetString(flagProject)
	repo, _ := cmd.Flags().GetString(flagRepo)
	arch, _ := cmd.Flags().GetString(flagArch)

	client := obs.NewClient(apiurl)
	files, err := client.PackageBinaries(ctx, project, repo, arch, args[0])
	if err != nil {
		return err
	}
	// the build service reports full file names, but the selection
	// files want bare package names
	var names []string
	for _, file := range files {
		if name, _, ok := pkgname.Parse(file); ok {
			names = append(names, name)
		}
	}
	names, err = filterBinaryNames(cmd, names)
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
