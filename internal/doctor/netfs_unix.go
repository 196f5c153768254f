//go:build unix

package doctor

import (
	"fmt"

	"github.com/filelockd/filelockd/internal/netfs"
)

// CheckNetworkFS warns when the target directory sits on a network mount.
// Acquisition rests entirely on mkdir being atomic, and not every NFS
// client/server combination keeps that promise; mtime resolution can also
// differ between client and server, which skews the staleness math.
func CheckNetworkFS(path string) CheckResult {
	result := CheckResult{Name: "network_fs"}

	remote, mount, magic := netfs.Detect(path)
	if remote {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("%s mount detected; atomic mkdir and mtime resolution may not be reliable", mount)
		return result
	}

	result.Status = StatusOK
	if magic == 0 {
		result.Message = "filesystem type unknown (path may not exist)"
		return result
	}
	result.Message = fmt.Sprintf("local filesystem (%s)", fsName(magic))
	return result
}

// localNames resolves well-known local statfs magic numbers for doctor
// output. Anything unlisted is shown as the raw magic number.
var localNames = map[int64]string{
	0x9123683E: "btrfs",
	0xEF53:     "ext4",
	0x01021994: "tmpfs",
	0x58465342: "xfs",
	0x4244:     "hfs",
	0x482b:     "hfs+",
	0x1badface: "apfs",
}

func fsName(magic int64) string {
	if name, ok := localNames[magic]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", magic)
}
