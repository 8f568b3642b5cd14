// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package vfs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vshlang/vsh/vfs"
)

func TestWriteReadRoundTrip(t *testing.T) {
	fs := vfs.New(nil)
	require.NoError(t, fs.Mkdir("/a/b", true))
	require.NoError(t, fs.WriteFile("/a/b/c.txt", []byte("hello")))

	data, err := fs.ReadFile("/a/b/c.txt")
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	info, err := fs.Stat("/a/b/c.txt")
	require.NoError(t, err)
	require.Equal(t, vfs.KindFile, info.Kind)
	require.EqualValues(t, 5, info.Size)
}

func TestReadDirInsertionOrder(t *testing.T) {
	fs := vfs.New(nil)
	require.NoError(t, fs.Mkdir("/dir", false))
	require.NoError(t, fs.WriteFile("/dir/z.txt", nil))
	require.NoError(t, fs.WriteFile("/dir/a.txt", nil))
	require.NoError(t, fs.WriteFile("/dir/m.txt", nil))

	names, err := fs.ReadDir("/dir")
	require.NoError(t, err)
	require.Equal(t, []string{"z.txt", "a.txt", "m.txt"}, names)
}

func TestMkdirAlreadyExists(t *testing.T) {
	fs := vfs.New(nil)
	require.NoError(t, fs.Mkdir("/dir", false))
	err := fs.Mkdir("/dir", false)
	require.Error(t, err)
	kind, ok := vfs.KindOf(err)
	require.True(t, ok)
	require.Equal(t, vfs.ErrAlreadyExists, kind)
}

func TestMkdirParentsIsIdempotent(t *testing.T) {
	fs := vfs.New(nil)
	require.NoError(t, fs.Mkdir("/a/b/c", true))
	require.NoError(t, fs.Mkdir("/a/b/c", true))
}

func TestRemoveNonEmptyDirRequiresRecursive(t *testing.T) {
	fs := vfs.New(nil)
	require.NoError(t, fs.Mkdir("/dir", false))
	require.NoError(t, fs.WriteFile("/dir/f.txt", nil))

	err := fs.Remove("/dir", false)
	require.Error(t, err)

	require.NoError(t, fs.Remove("/dir", true))
	require.False(t, fs.Exists("/dir"))
}

func TestSymlinkResolution(t *testing.T) {
	fs := vfs.New(nil)
	require.NoError(t, fs.WriteFile("/target.txt", []byte("real")))
	require.NoError(t, fs.Symlink("/target.txt", "/link.txt"))

	data, err := fs.ReadFile("/link.txt")
	require.NoError(t, err)
	require.Equal(t, "real", string(data))

	info, err := fs.Lstat("/link.txt")
	require.NoError(t, err)
	require.Equal(t, vfs.KindSymlink, info.Kind)
	require.Equal(t, "/target.txt", info.Target)
}

func TestCloneIsolatesMutations(t *testing.T) {
	fs := vfs.New(nil)
	require.NoError(t, fs.WriteFile("/shared.txt", []byte("v1")))

	clone := fs.Clone()
	require.NoError(t, clone.WriteFile("/shared.txt", []byte("v2")))
	require.NoError(t, clone.WriteFile("/only-in-clone.txt", nil))

	data, err := fs.ReadFile("/shared.txt")
	require.NoError(t, err)
	require.Equal(t, "v1", string(data), "original FS must not see the clone's write")
	require.False(t, fs.Exists("/only-in-clone.txt"))
}

func TestCleanNormalizesRelativeAndDotSegments(t *testing.T) {
	require.Equal(t, "/home/user/dir", vfs.Clean("/home/user", "./dir"))
	require.Equal(t, "/home", vfs.Clean("/home/user", "../"))
	require.Equal(t, "/etc/passwd", vfs.Clean("/home/user", "/etc/passwd"))
}

func TestRename(t *testing.T) {
	fs := vfs.New(nil)
	require.NoError(t, fs.WriteFile("/old.txt", []byte("x")))
	require.NoError(t, fs.Rename("/old.txt", "/new.txt"))
	require.False(t, fs.Exists("/old.txt"))
	data, err := fs.ReadFile("/new.txt")
	require.NoError(t, err)
	require.Equal(t, "x", string(data))
}
