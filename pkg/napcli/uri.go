package napcli

import (
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"strconv"
	"strings"

	"github.com/tasknap/tasknap/common"
)

// DaemonURI is a parsed daemon endpoint, ready to dial.
type DaemonURI struct {
	Scheme  string // "unix", "tcp", or "pipe"
	Address string // socket path, host:port, or pipe path
}

// Supported URI schemes
const (
	SchemeUnix = "unix"
	SchemeTCP  = "tcp"
	SchemePipe = "pipe"
)

// Errors
var (
	ErrEmptyURI          = errors.New("daemon URI cannot be empty")
	ErrUnsupportedScheme = errors.New("unsupported URI scheme")
	ErrInvalidPath       = errors.New("invalid path in URI")
	ErrPipeNotSupported  = errors.New("pipe:// scheme only supported on Windows")
	ErrUnixNotSupported  = errors.New("unix:// scheme not supported on Windows")
)

// ParseDaemonURI parses an explicit daemon endpoint of the form
// unix:///path, tcp://host[:port], or pipe://name. Unix sockets are
// rejected on Windows and pipes everywhere else.
func ParseDaemonURI(raw string) (*DaemonURI, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyURI
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	switch strings.ToLower(u.Scheme) {
	case SchemeUnix:
		return parseUnixURI(u)
	case SchemeTCP:
		return parseTCPURI(u)
	case SchemePipe:
		return parsePipeURI(u)
	default:
		return nil, ErrUnsupportedScheme
	}
}

func parseUnixURI(u *url.URL) (*DaemonURI, error) {
	if runtime.GOOS == "windows" {
		return nil, ErrUnixNotSupported
	}

	// unix:///path parses with an empty Host. A non-empty Host means
	// unix://relative/path, and a socket address cannot be relative.
	if u.Host != "" {
		return nil, ErrInvalidPath
	}
	if !strings.HasPrefix(u.Path, "/") {
		return nil, ErrInvalidPath
	}

	return &DaemonURI{Scheme: SchemeUnix, Address: u.Path}, nil
}

func parseTCPURI(u *url.URL) (*DaemonURI, error) {
	host := u.Host
	if host == "" {
		return nil, ErrInvalidPath
	}

	_, port, err := splitHostPort(host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	if port == "" {
		return &DaemonURI{
			Scheme:  SchemeTCP,
			Address: fmt.Sprintf("%s:%d", host, common.DefaultTCPPort),
		}, nil
	}

	n, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid port", ErrInvalidPath)
	}
	if n < 1 || n > 65535 {
		return nil, fmt.Errorf("%w: port out of range", ErrInvalidPath)
	}

	return &DaemonURI{Scheme: SchemeTCP, Address: host}, nil
}

const pipePrefix = `\\.\pipe\`

func parsePipeURI(u *url.URL) (*DaemonURI, error) {
	if runtime.GOOS != "windows" {
		return nil, ErrPipeNotSupported
	}

	name := u.Host
	if name == "" {
		return nil, ErrInvalidPath
	}
	if !strings.HasPrefix(name, pipePrefix) {
		name = pipePrefix + name
	}

	return &DaemonURI{Scheme: SchemePipe, Address: name}, nil
}

// splitHostPort separates an optional port from the host part of a
// tcp:// URI. Unlike net.SplitHostPort it accepts a missing port, and
// it treats a bare multi-colon string as a portless IPv6 address.
func splitHostPort(hostport string) (string, string, error) {
	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return "", "", errors.New("missing closing bracket in IPv6 address")
		}
		host, rest := hostport[:end+1], hostport[end+1:]
		switch {
		case rest == "":
			return host, "", nil
		case strings.HasPrefix(rest, ":"):
			return host, rest[1:], nil
		default:
			return "", "", errors.New("invalid format after IPv6 address")
		}
	}

	switch strings.Count(hostport, ":") {
	case 0:
		return hostport, "", nil
	case 1:
		i := strings.IndexByte(hostport, ':')
		return hostport[:i], hostport[i+1:], nil
	}
	return hostport, "", nil
}
