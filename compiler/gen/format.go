package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Formatter formats the rendered source of one artifact. Formatters are
// called concurrently for different artifacts.
type Formatter interface {
	Format(ctx context.Context, path string, src []byte) ([]byte, error)
}

// The FormatFunc type is an adapter to allow the use of ordinary
// functions as Formatter.
type FormatFunc func(ctx context.Context, path string, src []byte) ([]byte, error)

// Format calls f(ctx, path, src).
func (f FormatFunc) Format(ctx context.Context, path string, src []byte) ([]byte, error) {
	return f(ctx, path, src)
}

// TidyFormatter is the default formatter. It strips trailing whitespace,
// collapses runs of blank lines, drops leading and trailing blank lines of
// the declarations and ends the file with a single newline.
var TidyFormatter = FormatFunc(func(_ context.Context, _ string, src []byte) ([]byte, error) {
	var (
		b     bytes.Buffer
		blank = true // swallow leading blank lines
	)
	for _, l := range strings.Split(string(src), "\n") {
		l = strings.TrimRight(l, " \t\r")
		if l == "" {
			if !blank {
				b.WriteByte('\n')
			}
			blank = true
			continue
		}
		b.WriteString(l)
		b.WriteByte('\n')
		blank = false
	}
	out := bytes.TrimRight(b.Bytes(), "\n")
	if len(out) == 0 {
		return nil, nil
	}
	return append(out, '\n'), nil
})

// CommandFormatter runs an external formatter (e.g. prettier) once per
// artifact, passing the source on stdin and reading the result from
// stdout. Every "{path}" argument is replaced with the artifact path.
type CommandFormatter struct {
	Argv []string
	// Dir is the working directory of the command. Formatting runs before
	// anything is written, so a missing Dir falls back to its nearest
	// existing parent.
	Dir string
}

// Format implements Formatter.
func (f *CommandFormatter) Format(ctx context.Context, path string, src []byte) ([]byte, error) {
	if len(f.Argv) == 0 {
		return nil, fmt.Errorf("format %s: empty command", path)
	}
	args := make([]string, len(f.Argv)-1)
	for i, a := range f.Argv[1:] {
		args[i] = strings.ReplaceAll(a, "{path}", path)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Argv[0], args...)
	cmd.Dir = existingDir(f.Dir)
	cmd.Stdin = bytes.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w: %s", f.Argv[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// existingDir returns dir, or its nearest ancestor that exists.
func existingDir(dir string) string {
	if dir == "" {
		return ""
	}
	dir = filepath.Clean(dir)
	for {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
