package preflight

import (
	"fmt"
	"os"
)

// checkCapturePermissionPlatform probes whether the process can plausibly
// open a raw capture handle on name. It never opens a live handle itself;
// it only checks the privilege a pcap open would need.
func checkCapturePermissionPlatform(name string) Check {
	uid := os.Geteuid()
	if uid == 0 {
		return Check{
			Name:    "capture_permission",
			Passed:  true,
			Message: "running as root",
		}
	}
	if uid < 0 {
		// Platform has no notion of euid (e.g. Windows); assume the
		// platform's own capture driver handles privilege elevation.
		return Check{
			Name:    "capture_permission",
			Passed:  true,
			Message: "euid not applicable on this platform",
		}
	}
	return Check{
		Name:    "capture_permission",
		Passed:  false,
		Message: fmt.Sprintf("not running as root (euid %d), capture on %q will likely fail", uid, name),
	}
}
