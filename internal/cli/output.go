package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-shortscript/internal/config"
	"github.com/alnah/go-shortscript/internal/workflow"
)

// stdinPath is the input argument that reads from stdin instead of a file.
const stdinPath = "-"

// warnNonMarkdownExtension writes a warning to w if path has an extension
// that is not .md. This alerts users that the output will be Markdown
// regardless of the file extension they specified.
func warnNonMarkdownExtension(w io.Writer, path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && ext != ".md" {
		_, _ = fmt.Fprintf(w, "Warning: output is Markdown regardless of %s extension\n", ext)
	}
}

// readInput returns the content of path, or of stdin when path is "-".
// Blank content is rejected with workflow.ErrEmptyInput.
func readInput(env *Env, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(env.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
	} else {
		if _, statErr := os.Stat(path); statErr != nil {
			if os.IsNotExist(statErr) {
				return "", fmt.Errorf("%s: %w", path, ErrFileNotFound)
			}
			return "", fmt.Errorf("cannot access file: %w", statErr)
		}
		// #nosec G304 -- path is user-provided, checked above
		data, err = os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%s: %w", displayName(path), workflow.ErrEmptyInput)
	}
	return content, nil
}

// deriveOutputPath converts an input path to an output name with suffix.
// Example: ("talk.txt", "_ideas") -> "talk_ideas.md"
// Stdin input uses "shortscript" as the base name.
func deriveOutputPath(inputPath, suffix string) string {
	base := "shortscript"
	if inputPath != stdinPath {
		base = filepath.Base(inputPath)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		// Avoid talk_script_revised_revised.md on repeated revisions.
		base = strings.TrimSuffix(base, suffix)
	}
	return base + suffix + ".md"
}

func displayName(path string) string {
	if path == stdinPath {
		return "stdin"
	}
	return path
}

// writeFileAtomic writes content to path atomically.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileAtomic(path, content string) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}

// emit writes content to the resolved output path, or to stdout when toStdout
// is set. Returns the path written, or "" for stdout.
func emit(env *Env, content string, toStdout bool, output, outputDir, defaultName string) (string, error) {
	if toStdout {
		_, err := fmt.Fprintln(env.Stdout, strings.TrimRight(content, "\n"))
		return "", err
	}

	path := resolveOutput(output, outputDir, defaultName)
	warnNonMarkdownExtension(env.Stderr, path)
	if err := writeFileAtomic(path, content); err != nil {
		return "", err
	}
	return path, nil
}

// resolveOutput applies config.ResolveOutputPath after expanding ~ in outputDir.
func resolveOutput(output, outputDir, defaultName string) string {
	if outputDir != "" {
		outputDir = config.ExpandPath(outputDir)
	}
	return config.ResolveOutputPath(output, outputDir, defaultName)
}
