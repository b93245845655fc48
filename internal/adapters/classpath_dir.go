package adapters

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"libfetch/internal/ports"
)

// DirClasspathAdapter is a reference ClasspathPort for hosts that extend
// their classpath from a watched directory: injection hard-links the jar
// into the directory, falling back to a copy across filesystems.
type DirClasspathAdapter struct {
	Dir string
}

func NewDirClasspathAdapter(dir string) DirClasspathAdapter {
	return DirClasspathAdapter{Dir: dir}
}

func (a DirClasspathAdapter) Inject(ctx context.Context, path string) error {
	if a.Dir == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("classpath directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return injectionError(path, err)
	}

	target := filepath.Join(a.Dir, filepath.Base(path))
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	if err := os.Link(path, target); err == nil {
		return nil
	}
	if err := copyFile(path, target); err != nil {
		return injectionError(path, err)
	}
	return nil
}

func injectionError(path string, cause error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("failed to inject %s into classpath directory", filepath.Base(path))).
		WithCause(cause)
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

var _ ports.ClasspathPort = DirClasspathAdapter{}
