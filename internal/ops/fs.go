package ops

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxTypeSize caps type/cat output (512KB), matching the read limit
// used for translation-adjacent tooling.
const MaxTypeSize = 512 * 1024

// Dir lists directory entries: directories first marked with a trailing
// slash, files with their size. Defaults to the session cwd.
func Dir(_ context.Context, args []string, cwd string) (Result, error) {
	path := cwd
	if len(args) > 0 {
		path = resolvePath(cwd, args[0])
	}

	if _, herr := statDir("dir", path); herr != nil {
		return Result{}, herr
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return Result{}, osError("dir", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var sb strings.Builder
	for _, e := range entries {
		if e.IsDir() {
			fmt.Fprintf(&sb, "%s/\n", e.Name())
			continue
		}
		size := int64(0)
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		fmt.Fprintf(&sb, "%s  (%d bytes)\n", e.Name(), size)
	}
	if sb.Len() == 0 {
		return ok("Directory is empty"), nil
	}
	return ok(strings.TrimRight(sb.String(), "\n")), nil
}

// Cd resolves the target directory and reports it as a workdir delta.
// No argument goes home, ".." goes to the parent of cwd.
func Cd(_ context.Context, args []string, cwd string) (Result, error) {
	var target string
	switch {
	case len(args) == 0:
		home, err := os.UserHomeDir()
		if err != nil {
			return Result{}, osError("cd", err)
		}
		target = home
	case args[0] == "..":
		target = filepath.Dir(cwd)
	default:
		target = resolvePath(cwd, args[0])
	}

	if _, herr := statDir("cd", target); herr != nil {
		return Result{}, herr
	}

	return Result{
		Stdout:  fmt.Sprintf("Changed to: %s", target),
		Workdir: target,
	}, nil
}

// Pwd prints the session's working directory.
func Pwd(_ context.Context, _ []string, cwd string) (Result, error) {
	return ok(cwd), nil
}

// Mkdir creates each named directory, including missing parents.
func Mkdir(_ context.Context, args []string, cwd string) (Result, error) {
	for _, name := range args {
		if err := os.MkdirAll(resolvePath(cwd, name), 0755); err != nil {
			return Result{}, osError("mkdir", err)
		}
	}
	return ok(fmt.Sprintf("Created directory: %s", strings.Join(args, ", "))), nil
}

// Rmdir removes each named directory; the directory must be empty.
func Rmdir(_ context.Context, args []string, cwd string) (Result, error) {
	for _, name := range args {
		path := resolvePath(cwd, name)
		if _, herr := statDir("rmdir", path); herr != nil {
			return Result{}, herr
		}
		if err := os.Remove(path); err != nil {
			if strings.Contains(err.Error(), "not empty") {
				return Result{}, invalidArgument("rmdir", fmt.Sprintf("'%s' is not empty", path))
			}
			return Result{}, osError("rmdir", err)
		}
	}
	return ok(fmt.Sprintf("Removed directory: %s", strings.Join(args, ", "))), nil
}

// Del deletes each named file. Directories are refused.
func Del(_ context.Context, args []string, cwd string) (Result, error) {
	for _, name := range args {
		path := resolvePath(cwd, name)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Result{}, notFound("del", name)
			}
			return Result{}, osError("del", err)
		}
		if info.IsDir() {
			return Result{}, invalidArgument("del", fmt.Sprintf("'%s' is a directory, use rmdir", name))
		}
		if err := os.Remove(path); err != nil {
			return Result{}, osError("del", err)
		}
	}
	return ok(fmt.Sprintf("Deleted file: %s", strings.Join(args, ", "))), nil
}

// Copy duplicates a file or directory tree. Copying a file into an
// existing directory keeps the source name.
func Copy(_ context.Context, args []string, cwd string) (Result, error) {
	src := resolvePath(cwd, args[0])
	dst := resolvePath(cwd, args[1])

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, notFound("copy", args[0])
		}
		return Result{}, osError("copy", err)
	}

	if info.IsDir() {
		if _, err := os.Stat(dst); err == nil {
			return Result{}, invalidArgument("copy", fmt.Sprintf("destination '%s' already exists", args[1]))
		}
		if err := copyTree(src, dst); err != nil {
			return Result{}, osError("copy", err)
		}
	} else {
		if dstInfo, err := os.Stat(dst); err == nil && dstInfo.IsDir() {
			dst = filepath.Join(dst, filepath.Base(src))
		}
		if err := copyFile(src, dst); err != nil {
			return Result{}, osError("copy", err)
		}
	}

	return ok(fmt.Sprintf("Copied '%s' to '%s'", src, dst)), nil
}

// Move relocates a file or directory. Moving into an existing directory
// keeps the source name.
func Move(_ context.Context, args []string, cwd string) (Result, error) {
	src := resolvePath(cwd, args[0])
	dst := resolvePath(cwd, args[1])

	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, notFound("move", args[0])
		}
		return Result{}, osError("move", err)
	}
	if dstInfo, err := os.Stat(dst); err == nil && dstInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	if err := os.Rename(src, dst); err != nil {
		return Result{}, osError("move", err)
	}
	return ok(fmt.Sprintf("Moved '%s' to '%s'", src, dst)), nil
}

// Ren renames a file or directory in place.
func Ren(_ context.Context, args []string, cwd string) (Result, error) {
	oldPath := resolvePath(cwd, args[0])
	newPath := resolvePath(cwd, args[1])

	if _, err := os.Stat(oldPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, notFound("ren", args[0])
		}
		return Result{}, osError("ren", err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return Result{}, osError("ren", err)
	}
	return ok(fmt.Sprintf("Renamed '%s' to '%s'", oldPath, newPath)), nil
}

// TypeFile prints a file's contents, truncated at MaxTypeSize.
func TypeFile(_ context.Context, args []string, cwd string) (Result, error) {
	path := resolvePath(cwd, args[0])

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, notFound("type", args[0])
		}
		return Result{}, osError("type", err)
	}
	if info.IsDir() {
		return Result{}, invalidArgument("type", fmt.Sprintf("'%s' is a directory", args[0]))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, osError("type", err)
	}
	if len(data) > MaxTypeSize {
		truncated := string(data[:MaxTypeSize])
		return ok(fmt.Sprintf("%s\n\n[Truncated: file is %d bytes, showing first 512KB]", truncated, info.Size())), nil
	}
	return ok(string(data)), nil
}

// Touch creates each named file if it does not already exist.
func Touch(_ context.Context, args []string, cwd string) (Result, error) {
	for _, name := range args {
		f, err := os.OpenFile(resolvePath(cwd, name), os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return Result{}, osError("touch", err)
		}
		_ = f.Close()
	}
	return ok(fmt.Sprintf("Created file: %s", strings.Join(args, ", "))), nil
}

// Echo joins its arguments with spaces.
func Echo(_ context.Context, args []string, _ string) (Result, error) {
	return ok(strings.Join(args, " ")), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return copyFile(path, target)
	})
}
