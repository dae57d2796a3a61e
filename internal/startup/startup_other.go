//go:build !windows

package startup

// Enable is unavailable outside Windows.
func Enable(execPath string) error {
	return ErrUnsupported
}

// Disable is unavailable outside Windows.
func Disable() error {
	return ErrUnsupported
}

// Enabled reports false outside Windows.
func Enabled() (bool, error) {
	return false, ErrUnsupported
}
