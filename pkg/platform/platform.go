/*
Package platform maps short platform names to the canonical GNU target
triplets used to configure and namespace a cross-toolchain.
*/
package platform

import (
	"fmt"
	"sort"
)

// ErrUnsupported is returned when a platform name is not in the supported set.
var ErrUnsupported = fmt.Errorf("platform: unsupported target platform")

var triplets = map[string]string{
	"aarch64":  "aarch64-linux-gnu",
	"amd64":    "amd64-linux-gnu",
	"arm32":    "arm-linux-gnueabi",
	"armhf":    "arm-linux-gnueabihf",
	"ia32":     "i686-pc-linux-gnu",
	"ia64":     "ia64-pc-linux-gnu",
	"mips32":   "mipsel-linux-gnu",
	"mips32eb": "mips-linux-gnu",
	"mips64":   "mips64el-linux-gnu",
	"ppc32":    "ppc-linux-gnu",
	"ppc64":    "ppc64-linux-gnu",
	"sparc32":  "sparc-leon3-linux-gnu",
	"sparc64":  "sparc64-linux-gnu",
	"lm32":     "lm32-elf",
}

// Triplet returns the GNU target triplet for the given platform name.
// Unknown names are rejected with an error wrapping ErrUnsupported,
// so callers can validate input before touching the network or the disk.
func Triplet(name string) (string, error) {
	triplet, ok := triplets[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, name)
	}
	return triplet, nil
}

// Names returns the supported platform names in sorted order.
func Names() []string {
	names := make([]string, 0, len(triplets))
	for name := range triplets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
