package python

import (
	"bytes"
	"encoding/json"
	"text/template"

	"go.trai.ch/bex/internal/core/domain"
)

// statusEnv names the file the launcher touches once the entrypoint resolved.
const statusEnv = "BEX_LAUNCH_STATUS"

// launcherTemplate resolves the entrypoint, records that it resolved, then
// calls it. Its return value becomes the exit status.
var launcherTemplate = template.Must(template.New("launcher").Parse(`import importlib
import os
import sys


def _bex_resolve():
    try:
        target = importlib.import_module({{.Module}})
    except ModuleNotFoundError as exc:
        sys.stderr.write("bex: cannot import module %s: %s\n" % ({{.Module}}, exc))
        sys.exit(1)
    for name in {{.Attributes}}:
        try:
            target = getattr(target, name)
        except AttributeError:
            sys.stderr.write("bex: %s has no attribute %s\n" % ({{.Reference}}, name))
            sys.exit(1)
    if not callable(target):
        sys.stderr.write("bex: %s is not callable\n" % {{.Reference}})
        sys.exit(1)
    return target


_bex_entrypoint = _bex_resolve()
_bex_status = os.environ.pop({{.StatusEnv}}, None)
if _bex_status:
    with open(_bex_status, "w") as _bex_file:
        _bex_file.write("resolved\n")
sys.argv[0] = os.environ.get("BEX_FILE", sys.argv[0])
sys.exit(_bex_entrypoint())
`))

type launcherData struct {
	Module     string
	Attributes string
	Reference  string
	StatusEnv  string
}

// quote renders s as a Python string literal. JSON string syntax is a subset
// of Python's for the identifiers an entrypoint may contain.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// launcherScript returns the program passed to the interpreter with -c.
func launcherScript(ep domain.Entrypoint) (string, error) {
	attrs, err := json.Marshal(ep.AttributePath())
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = launcherTemplate.Execute(&buf, launcherData{
		Module:     quote(ep.Module),
		Attributes: string(attrs),
		Reference:  quote(ep.String()),
		StatusEnv:  quote(statusEnv),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
