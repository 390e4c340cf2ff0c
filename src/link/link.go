// Package link implements the linker policy: probing for a usable system
// linker and invoking it against a compiled object file, in the same
// "plain error, no abstraction" style as the rest of this codebase's
// system-call plumbing (see util/io.go).
package link

import (
	"fmt"
	"os/exec"
)

// knownLinkers is the ordered probe list: the first one found on PATH
// wins. cc is tried first because it is the most likely to already be
// configured for the host's default target.
var knownLinkers = []string{"cc", "clang", "gcc", "ld"}

// CheckAvailable reports whether at least one known linker binary is
// resolvable on PATH, and if so, which one.
func CheckAvailable() (string, bool) {
	for _, name := range knownLinkers {
		if _, err := exec.LookPath(name); err == nil {
			return name, true
		}
	}
	return "", false
}

// Link invokes the first available linker on objectPath, producing an
// executable at outPath, with extraFlags appended verbatim.
func Link(objectPath, outPath string, extraFlags []string) error {
	name, ok := CheckAvailable()
	if !ok {
		return fmt.Errorf("link: no usable linker found (tried %v)", knownLinkers)
	}
	args := append([]string{objectPath, "-o", outPath}, extraFlags...)
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("link: %s failed: %w\n%s", name, err, out)
	}
	return nil
}
