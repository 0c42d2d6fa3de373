package python

import "go.trai.ch/bex/internal/core/domain"

// LauncherScriptForTest exposes the rendered launcher program.
func LauncherScriptForTest(ep domain.Entrypoint) (string, error) {
	return launcherScript(ep)
}
