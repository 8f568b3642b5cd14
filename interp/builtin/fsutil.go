// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package builtin

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/vshlang/vsh/interp"
	"github.com/vshlang/vsh/vfs"
)

var fsBuiltins = map[string]interp.Builtin{
	"ls":       bLs,
	"mkdir":    bMkdir,
	"rm":       bRm,
	"touch":    bTouch,
	"mv":       bMv,
	"cp":       bCp,
	"ln":       bLn,
	"basename": bBasename,
	"dirname":  bDirname,
	"realpath": bRealpath,
}

// bLs lists directory entries in insertion order (spec.md §4.6), with
// an optional -a to include dotfiles and -1 to force one per line (the
// sandbox has no terminal width to wrap against, so this is default).
func bLs(_ context.Context, st *interp.State, argv []string, _ io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	var showAll bool
	var targets []string
	for _, a := range argv[1:] {
		switch a {
		case "-a":
			showAll = true
		case "-1":
		default:
			targets = append(targets, a)
		}
	}
	if len(targets) == 0 {
		targets = []string{"."}
	}
	exit := uint8(0)
	for _, t := range targets {
		abs := resolvePath(st, t)
		info, err := st.FS.Stat(abs)
		if err != nil {
			errw.WriteString("ls: " + t + ": " + errText(err) + "\n")
			exit = 1
			continue
		}
		if info.Kind != vfs.KindDir {
			out.WriteString(t + "\n")
			continue
		}
		names, err := st.FS.ReadDir(abs)
		if err != nil {
			errw.WriteString("ls: " + t + ": " + errText(err) + "\n")
			exit = 1
			continue
		}
		for _, name := range names {
			if !showAll && strings.HasPrefix(name, ".") {
				continue
			}
			out.WriteString(name + "\n")
		}
	}
	return exit, interp.Signal{}
}

func bMkdir(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	parents := false
	var paths []string
	for _, a := range argv[1:] {
		if a == "-p" {
			parents = true
			continue
		}
		paths = append(paths, a)
	}
	exit := uint8(0)
	for _, p := range paths {
		if err := st.FS.Mkdir(resolvePath(st, p), parents); err != nil {
			errw.WriteString("mkdir: " + p + ": " + errText(err) + "\n")
			exit = 1
		}
	}
	return exit, interp.Signal{}
}

func bRm(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	recursive, force := false, false
	var paths []string
	for _, a := range argv[1:] {
		switch a {
		case "-r", "-rf", "-fr", "-R":
			recursive = true
			if strings.Contains(a, "f") {
				force = true
			}
		case "-f":
			force = true
		default:
			paths = append(paths, a)
		}
	}
	exit := uint8(0)
	for _, p := range paths {
		if err := st.FS.Remove(resolvePath(st, p), recursive); err != nil {
			if force {
				continue
			}
			errw.WriteString("rm: " + p + ": " + errText(err) + "\n")
			exit = 1
		}
	}
	return exit, interp.Signal{}
}

func bTouch(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	exit := uint8(0)
	for _, p := range argv[1:] {
		abs := resolvePath(st, p)
		if st.FS.Exists(abs) {
			data, err := st.FS.ReadFile(abs)
			if err == nil {
				st.FS.WriteFile(abs, data)
			}
			continue
		}
		if err := st.FS.WriteFile(abs, nil); err != nil {
			errw.WriteString("touch: " + p + ": " + errText(err) + "\n")
			exit = 1
		}
	}
	return exit, interp.Signal{}
}

func bMv(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	if len(args) != 2 {
		errw.WriteString("mv: usage: mv source dest\n")
		return 2, interp.Signal{}
	}
	if err := st.FS.Rename(resolvePath(st, args[0]), resolvePath(st, args[1])); err != nil {
		errw.WriteString("mv: " + errText(err) + "\n")
		return 1, interp.Signal{}
	}
	return 0, interp.Signal{}
}

func bCp(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	recursive := false
	if len(args) > 0 && (args[0] == "-r" || args[0] == "-R") {
		recursive = true
		args = args[1:]
	}
	if len(args) != 2 {
		errw.WriteString("cp: usage: cp [-r] source dest\n")
		return 2, interp.Signal{}
	}
	src, dst := resolvePath(st, args[0]), resolvePath(st, args[1])
	if err := copyPath(st, src, dst, recursive); err != nil {
		errw.WriteString("cp: " + errText(err) + "\n")
		return 1, interp.Signal{}
	}
	return 0, interp.Signal{}
}

func copyPath(st *interp.State, src, dst string, recursive bool) error {
	info, err := st.FS.Stat(src)
	if err != nil {
		return err
	}
	if info.Kind == vfs.KindDir {
		if !recursive {
			return &vfs.Error{Kind: vfs.ErrIsADirectory, Op: "cp", Path: src}
		}
		if err := st.FS.Mkdir(dst, true); err != nil && !isAlreadyExists(err) {
			return err
		}
		names, err := st.FS.ReadDir(src)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := copyPath(st, path.Join(src, name), path.Join(dst, name), recursive); err != nil {
				return err
			}
		}
		return nil
	}
	data, err := st.FS.ReadFile(src)
	if err != nil {
		return err
	}
	return st.FS.WriteFile(dst, data)
}

func isAlreadyExists(err error) bool {
	k, ok := vfs.KindOf(err)
	return ok && k == vfs.ErrAlreadyExists
}

func bLn(_ context.Context, st *interp.State, argv []string, _ io.Reader, _, errw *strings.Builder) (uint8, interp.Signal) {
	args := argv[1:]
	symbolic := false
	if len(args) > 0 && args[0] == "-s" {
		symbolic = true
		args = args[1:]
	}
	if len(args) != 2 || !symbolic {
		errw.WriteString("ln: only `ln -s target linkname` is supported\n")
		return 2, interp.Signal{}
	}
	if err := st.FS.Symlink(args[0], resolvePath(st, args[1])); err != nil {
		errw.WriteString("ln: " + errText(err) + "\n")
		return 1, interp.Signal{}
	}
	return 0, interp.Signal{}
}

func bBasename(_ context.Context, _ *interp.State, argv []string, _ io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	if len(argv) < 2 {
		errw.WriteString("basename: usage: basename path [suffix]\n")
		return 2, interp.Signal{}
	}
	base := path.Base(argv[1])
	if len(argv) > 2 {
		base = strings.TrimSuffix(base, argv[2])
	}
	out.WriteString(base + "\n")
	return 0, interp.Signal{}
}

func bDirname(_ context.Context, _ *interp.State, argv []string, _ io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	if len(argv) < 2 {
		errw.WriteString("dirname: usage: dirname path\n")
		return 2, interp.Signal{}
	}
	out.WriteString(path.Dir(argv[1]) + "\n")
	return 0, interp.Signal{}
}

func bRealpath(_ context.Context, st *interp.State, argv []string, _ io.Reader, out, errw *strings.Builder) (uint8, interp.Signal) {
	if len(argv) < 2 {
		errw.WriteString("realpath: usage: realpath path\n")
		return 2, interp.Signal{}
	}
	abs := resolvePath(st, argv[1])
	if !st.FS.Exists(abs) {
		errw.WriteString("realpath: " + argv[1] + ": no such file or directory\n")
		return 1, interp.Signal{}
	}
	out.WriteString(abs + "\n")
	return 0, interp.Signal{}
}
