// Package metrics produces repository activity reports: hosted metadata
// from the GitHub API for remote repositories, and tree statistics for
// local checkouts.
package metrics

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

var repoURLPattern = regexp.MustCompile(`github\.com[/:]([^/]+)/([^/]+?)(?:\.git)?/?$`)

// ParseRepoURL extracts owner and repository name from a GitHub URL in
// https or ssh form.
func ParseRepoURL(url string) (owner, repo string, err error) {
	m := repoURLPattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return "", "", fmt.Errorf("not a recognizable GitHub repository URL: %s", url)
	}
	return m[1], m[2], nil
}

// RepoReport summarizes a hosted repository's metadata and activity.
type RepoReport struct {
	Owner        string
	Name         string
	Description  string
	Stars        int
	Forks        int
	OpenIssues   int
	Language     string
	Contributors []ContributorStat
	PullRequests int
}

// ContributorStat is one contributor's commit count.
type ContributorStat struct {
	Login   string
	Commits int
}

// GitHubReporter fetches repository reports from the GitHub API.
type GitHubReporter struct {
	client *github.Client
}

// NewGitHubReporter creates a reporter. An empty token uses unauthenticated
// access, which is enough for public repositories at low request rates.
func NewGitHubReporter(ctx context.Context, token string) *GitHubReporter {
	if token == "" {
		return &GitHubReporter{client: github.NewClient(nil)}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &GitHubReporter{client: github.NewClient(oauth2.NewClient(ctx, ts))}
}

// Report fetches the full report for owner/repo.
func (r *GitHubReporter) Report(ctx context.Context, owner, repo string) (*RepoReport, error) {
	info, _, err := r.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository: %w", err)
	}

	report := &RepoReport{
		Owner:       owner,
		Name:        repo,
		Description: info.GetDescription(),
		Stars:       info.GetStargazersCount(),
		Forks:       info.GetForksCount(),
		OpenIssues:  info.GetOpenIssuesCount(),
		Language:    info.GetLanguage(),
	}

	contributors, err := r.contributors(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	report.Contributors = contributors

	prs, err := r.pullRequestCount(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	report.PullRequests = prs

	return report, nil
}

func (r *GitHubReporter) contributors(ctx context.Context, owner, repo string) ([]ContributorStat, error) {
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var stats []ContributorStat
	for {
		page, resp, err := r.client.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list contributors: %w", err)
		}
		for _, c := range page {
			stats = append(stats, ContributorStat{
				Login:   c.GetLogin(),
				Commits: c.GetContributions(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return stats, nil
}

func (r *GitHubReporter) pullRequestCount(ctx context.Context, owner, repo string) (int, error) {
	opts := &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	count := 0
	for {
		page, resp, err := r.client.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return 0, fmt.Errorf("failed to list pull requests: %w", err)
		}
		count += len(page)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return count, nil
}

// Format renders a report as display text.
func (report *RepoReport) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Report for %s/%s\n", report.Owner, report.Name)
	if report.Description != "" {
		fmt.Fprintf(&sb, "   %s\n", report.Description)
	}
	fmt.Fprintf(&sb, "   ⭐ Stars: %d  🍴 Forks: %d  🐛 Open issues: %d\n",
		report.Stars, report.Forks, report.OpenIssues)
	if report.Language != "" {
		fmt.Fprintf(&sb, "   Language: %s\n", report.Language)
	}
	fmt.Fprintf(&sb, "   Pull requests: %d\n", report.PullRequests)

	if len(report.Contributors) > 0 {
		sb.WriteString("   Top contributors:\n")
		top := report.Contributors
		if len(top) > 5 {
			top = top[:5]
		}
		for _, c := range top {
			fmt.Fprintf(&sb, "     - %s (%d commits)\n", c.Login, c.Commits)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
