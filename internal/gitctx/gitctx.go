package gitctx

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"reviewhub/internal/review"
)

// CommitContext is the git metadata attached to a pre-commit check.
type CommitContext struct {
	Branch      string
	AuthorEmail string
}

// StagedFiles collects the staged (added/copied/modified) files with their
// index content. Unreadable files are skipped rather than failing the batch.
func StagedFiles() ([]review.FileInput, error) {
	out, err := gitOutput("diff", "--cached", "--name-only", "--diff-filter=ACM")
	if err != nil {
		return nil, fmt.Errorf("listing staged files: %w", err)
	}

	var files []review.FileInput
	for _, name := range strings.Split(strings.TrimSpace(out), "\n") {
		if name == "" {
			continue
		}
		// Read the staged blob, not the working tree, so the check matches
		// what would actually be committed.
		content, err := gitOutput("show", ":"+name)
		if err != nil {
			data, readErr := os.ReadFile(filepath.FromSlash(name))
			if readErr != nil {
				continue
			}
			content = string(data)
		}
		files = append(files, review.FileInput{Path: name, Content: content})
	}
	return files, nil
}

// ReadFiles loads explicit paths from the working tree.
func ReadFiles(paths []string) ([]review.FileInput, error) {
	files := make([]review.FileInput, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		files = append(files, review.FileInput{Path: filepath.ToSlash(p), Content: string(data)})
	}
	return files, nil
}

// Context collects branch and author metadata for commit-check records.
// Missing values degrade to "unknown" rather than failing the check.
func Context() CommitContext {
	ctx := CommitContext{Branch: "unknown", AuthorEmail: "unknown"}
	if branch, err := gitOutput("rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		ctx.Branch = strings.TrimSpace(branch)
	}
	if email, err := gitOutput("config", "user.email"); err == nil {
		ctx.AuthorEmail = strings.TrimSpace(email)
	}
	return ctx
}

// HookPath returns the repository's pre-commit hook path.
func HookPath() (string, error) {
	out, err := gitOutput("rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("not a git repository (git rev-parse --git-dir failed)")
	}
	gitDir := strings.TrimSpace(out)
	return filepath.Join(gitDir, "hooks", "pre-commit"), nil
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
