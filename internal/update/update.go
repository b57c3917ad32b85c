// internal/update/update.go
package update

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// DefaultReleasesURL is the latest-release endpoint for this CLI.
	DefaultReleasesURL = "https://api.github.com/repos/helpscout/helpscout-cli/releases/latest"
	CheckTimeout       = 5 * time.Second

	// EnvDisable turns the check off when set to any non-empty value.
	EnvDisable = "HELPSCOUT_NO_UPDATE_CHECK"
)

type release struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
	Draft      bool   `json:"draft"`
}

// Info is the update section of `helpscout version`.
type Info struct {
	Latest          string `json:"latest"`
	UpdateAvailable bool   `json:"updateAvailable"`
	URL             string `json:"url,omitempty"`
}

// Checker looks up the latest published release.
type Checker struct {
	URL  string
	HTTP *http.Client
}

// NewChecker returns a Checker for the public releases endpoint.
func NewChecker() *Checker {
	return &Checker{URL: DefaultReleasesURL, HTTP: &http.Client{Timeout: CheckTimeout}}
}

// Check compares current against the latest release. It returns nil
// whenever the answer is unknown: dev builds, the check disabled, network
// or decode failures, drafts and pre-releases. It never blocks the CLI for
// longer than CheckTimeout.
func (c *Checker) Check(ctx context.Context, current string) *Info {
	if current == "dev" || current == "" || os.Getenv(EnvDisable) != "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil
	}
	if rel.TagName == "" || rel.Draft || rel.Prerelease {
		return nil
	}

	latest := normalizeVersion(rel.TagName)
	info := &Info{
		Latest: strings.TrimPrefix(rel.TagName, "v"),
		URL:    rel.HTMLURL,
	}
	if cur := normalizeVersion(current); semver.IsValid(cur) && semver.IsValid(latest) {
		info.UpdateAvailable = semver.Compare(latest, cur) > 0
	}
	return info
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
