package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ChamsBouzaiene/codequery/internal/collector"
	"github.com/ChamsBouzaiene/codequery/internal/gitrepo"
	"github.com/ChamsBouzaiene/codequery/internal/metrics"
	"github.com/ChamsBouzaiene/codequery/internal/session"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx := context.Background()

	fs := flag.NewFlagSet("codequery", flag.ExitOnError)
	repoFlag := fs.String("repo", "", "Repository to load on startup (local path or GitHub URL)")
	topKFlag := fs.Int("k", 0, "Number of chunks retrieved per question")
	timeoutFlag := fs.Int("timeout", 0, "Answer generation timeout in seconds")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	env, err := prepareRuntimeEnv(ctx, *topKFlag, *timeoutFlag)
	if err != nil {
		log.Fatalf("failed to prepare runtime environment: %v", err)
	}
	defer env.Close()

	if *repoFlag != "" {
		loadRepository(ctx, env, *repoFlag)
	}

	runREPL(ctx, env)
}

func runREPL(ctx context.Context, env *runtimeEnv) {
	fmt.Println("💬 Ask about the loaded repository. Type /help for commands.")

	var transcript *session.Transcript
	var repoTarget string

	s := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !s.Scan() {
			break
		}
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return

		case line == "/help":
			printHelp()

		case strings.HasPrefix(line, "/load"):
			target := strings.TrimSpace(strings.TrimPrefix(line, "/load"))
			if target == "" {
				fmt.Println("Usage: /load <path-or-github-url>")
				continue
			}
			if loadRepository(ctx, env, target) {
				repoTarget = target
				transcript = env.Transcripts.NewTranscript(env.Session.Root())
			}

		case line == "/reset":
			env.Session.Reset(ctx)
			transcript = nil
			repoTarget = ""
			fmt.Println("🧹 Session cleared.")

		case strings.HasPrefix(line, "/report"):
			target := strings.TrimSpace(strings.TrimPrefix(line, "/report"))
			if target == "" {
				target = repoTarget
			}
			printReport(ctx, env, target)

		default:
			answer := env.Router.Answer(ctx, line)
			fmt.Println(answer)
			fmt.Println()

			if transcript != nil {
				transcript.Turns = env.Session.Memory().Turns()
				if err := env.Transcripts.Save(transcript); err != nil {
					log.Printf("⚠️  Failed to save transcript: %v", err)
				}
			}
		}
	}
}

// loadRepository ingests a local path or clones a remote URL first.
// Returns true on success.
func loadRepository(ctx context.Context, env *runtimeEnv, target string) bool {
	root := target

	if gitrepo.IsRemoteURL(target) {
		if env.Workspace == nil {
			fmt.Println("❌ Remote repositories are unavailable in this session.")
			return false
		}
		fmt.Printf("⬇️  Cloning %s...\n", target)
		cloned, err := env.Workspace.Clone(ctx, target)
		if err != nil {
			fmt.Printf("❌ Clone failed: %v\n", err)
			return false
		}
		root = cloned
	}

	n, err := env.Session.Load(ctx, root)
	if err != nil {
		fmt.Printf("❌ Load failed: %v\n", err)
		return false
	}
	fmt.Printf("✅ Loaded %d files. Ask away.\n", n)
	return true
}

// printReport shows hosted metrics for GitHub targets and local tree stats
// for everything loaded.
func printReport(ctx context.Context, env *runtimeEnv, repoTarget string) {
	if !env.Session.Loaded() {
		fmt.Println("❌ Please load a repository first.")
		return
	}

	if owner, repo, err := metrics.ParseRepoURL(repoTarget); err == nil {
		reporter := metrics.NewGitHubReporter(ctx, env.GitHubToken)
		report, err := reporter.Report(ctx, owner, repo)
		if err != nil {
			fmt.Printf("⚠️  GitHub report unavailable: %v\n", err)
		} else {
			fmt.Println(report.Format())
		}

		if env.Analytics.Enabled() {
			if commits, err := env.Analytics.Commits(ctx, repoTarget); err == nil {
				fmt.Printf("   Commit activity: %s\n", commits)
			}
			if prs, err := env.Analytics.PullRequests(ctx, repoTarget); err == nil {
				fmt.Printf("   PR activity: %s\n", prs)
			}
		}
	}

	stats, err := localStats(ctx, env)
	if err != nil {
		fmt.Printf("⚠️  Local stats unavailable: %v\n", err)
		return
	}
	fmt.Println(stats.Format())
}

func localStats(ctx context.Context, env *runtimeEnv) (metrics.TreeStats, error) {
	paths, err := env.Session.Paths(ctx)
	if err != nil {
		return metrics.TreeStats{}, err
	}

	files := make([]collector.File, 0, len(paths))
	contents := make(map[string]string, len(paths))
	for _, p := range paths {
		content, ok, err := env.Session.Content(ctx, p)
		if err != nil || !ok {
			continue
		}
		files = append(files, collector.File{
			Path: p,
			Name: path.Base(p),
			Ext:  strings.TrimPrefix(path.Ext(p), "."),
		})
		contents[p] = content
	}
	return metrics.Analyze(files, contents), nil
}

func printHelp() {
	fmt.Println(`Commands:
  /load <path-or-url>  Load a local directory or GitHub repository
  /reset               Clear the loaded repository and conversation
  /report [url]        Show repository metrics (defaults to the loaded repo)
  /help                Show this help
  /quit                Exit

Anything else is treated as a question about the loaded repository.`)
}
