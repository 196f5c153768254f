//go:build unix

// Package netfs flags lock targets that sit on a network mount. Sentinel
// acquisition rests on two guarantees a remote filesystem may weaken:
// a mkdir observed atomically by every client, and mtimes stored at the
// resolution the holder probed. Detection feeds diagnostics only; the
// engine never refuses to run on a network mount.
package netfs

import "syscall"

// remoteMounts maps statfs(2) magic numbers to the mount types known to
// weaken the mkdir/mtime guarantees above.
var remoteMounts = map[int64]string{
	0x6969:     "NFS",      // NFS_SUPER_MAGIC (v3 and v4)
	0xff534d42: "CIFS/SMB", // CIFS_MAGIC_NUMBER
	0x517B:     "CIFS/SMB", // SMB_SUPER_MAGIC
	0x564c:     "NCP",      // NCP_SUPER_MAGIC
	0x5346414F: "AFS",      // AFS_SUPER_MAGIC
	0x65735546: "FUSE",     // FUSE_SUPER_MAGIC; could be SSHFS, GlusterFS, etc.
}

// Detect reports whether path resides on a network filesystem, the mount
// type's name when it does, and the statfs magic number for callers that
// display the filesystem type. A path that cannot be statfs'd reads as
// local with a zero magic: it will fail far louder on the first mkdir
// anyway.
func Detect(path string) (remote bool, mount string, magic int64) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return false, "", 0
	}
	// Statfs_t.Type is int32 on 32-bit Linux, where a magic like CIFS's
	// 0xff534d42 comes back negative; mask to the 32-bit pattern so it
	// matches the table on every platform.
	magic = int64(uint64(stat.Type) & 0xffffffff)
	mount, remote = remoteMounts[magic]
	return remote, mount, magic
}
