package python

import "os"

// interrupt kills the process; Windows has no deliverable interrupt signal.
func interrupt(p *os.Process) error {
	return p.Kill()
}
