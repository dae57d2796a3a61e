// Package startup manages launching the daemon at login. On Windows
// this is a HKCU Run registry value; other platforms report
// ErrUnsupported and the CLI explains itself.
package startup

import "errors"

// ErrUnsupported is returned on platforms without a startup
// integration.
var ErrUnsupported = errors.New("startup integration is only available on windows")

// runValueName is the registry value written under the Run key.
const runValueName = "TaskNap"
