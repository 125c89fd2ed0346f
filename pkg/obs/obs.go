package obs

import (
	"context"
	"encoding/xml"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-logr/logr"
)

// Runner executes the osc command line client and returns its output.
// It is injectable so tests can avoid shelling out.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// Client queries the Open Build Service. It shells out to osc rather
// than speaking the API directly, so the operator's existing osc
// credentials are honored.
type Client struct {
	APIURL string
	Runner Runner
}

func NewClient(apiurl string) *Client {
	return &Client{
		APIURL: apiurl,
		Runner: runOsc,
	}
}

func runOsc(ctx context.Context, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "osc", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("running osc: %w", err)
	}
	return out, nil
}

func (c *Client) api(ctx context.Context, path string) ([]byte, error) {
	log := logr.FromContextOrDiscard(ctx)
	log.V(2).Info("querying build service", "api", path)
	return c.Runner(ctx, "--apiurl", c.APIURL, "api", path)
}

type binaryList struct {
	XMLName  xml.Name      `xml:"binarylist"`
	Binaries []binaryEntry `xml:"binary"`
}

type binaryEntry struct {
	Filename string `xml:"filename,attr"`
}

// RepositoryBinaries lists the binary packages published in a whole
// repository.
func (c *Client) RepositoryBinaries(ctx context.Context, project, repo, arch string) ([]string, error) {
	return c.binaries(ctx, fmt.Sprintf("/build/%s/%s/%s/_repository", project, repo, arch))
}

// PackageBinaries lists the binary packages built from one source
// package.
func (c *Client) PackageBinaries(ctx context.Context, project, repo, arch, pkg string) ([]string, error) {
	return c.binaries(ctx, fmt.Sprintf("/build/%s/%s/%s/%s", project, repo, arch, pkg))
}

func (c *Client) binaries(ctx context.Context, path string) ([]string, error) {
	out, err := c.api(ctx, path)
	if err != nil {
		return nil, err
	}
	var list binaryList
	if err := xml.Unmarshal(out, &list); err != nil {
		return nil, fmt.Errorf("decoding binary list: %w", err)
	}
	var names []string
	for _, binary := range list.Binaries {
		// skip OBS helper artifacts: internal files, logs and
		// source packages
		if strings.HasPrefix(binary.Filename, "_") {
			continue
		}
		if strings.HasSuffix(binary.Filename, ".log") {
			continue
		}
		if strings.HasSuffix(binary.Filename, "src.rpm") {
			continue
		}
		names = append(names, binary.Filename)
	}
	return names, nil
}

// SourceSpec fetches the spec file text of a source package.
func (c *Client) SourceSpec(ctx context.Context, project, pkg string) (string, error) {
	out, err := c.api(ctx, fmt.Sprintf("/source/%s/%s/%s.spec", project, pkg, pkg))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
