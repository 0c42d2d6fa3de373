//go:build !windows

package python

import "os"

func interrupt(p *os.Process) error {
	return p.Signal(os.Interrupt)
}
