// Package env resolves the deployment target and per-service base URLs. The
// two mobile apps previously carried near-duplicated copies of this branching
// logic; here it is a single resolver driven by the configured service table.
package env

import (
	"fmt"
	"strings"

	"medisupply/mobile/internal/config"
)

type Environment string

func (e Environment) String() string {
	return string(e)
}

const (
	Local      Environment = "local"
	AWS        Environment = "aws"
	Production Environment = "production"
)

func (e Environment) Valid() bool {
	switch e {
	case Local, AWS, Production:
		return true
	default:
		return false
	}
}

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformDevice  Platform = "device"
)

// Resolve picks the deployment target. A valid explicit override wins; else
// release builds get production and everything else gets local.
func Resolve(override string, release bool) Environment {
	if e := Environment(override); e.Valid() {
		return e
	}
	if release {
		return Production
	}
	return Local
}

// Resolver maps service names to base URLs for one resolved environment.
// It holds only values, never performs I/O, and is safe to share.
type Resolver struct {
	env      Environment
	platform Platform
	lanHost  string
	table    map[string]config.DeploymentConfig
}

func NewResolver(cfg config.EnvironmentConfig, table map[string]config.DeploymentConfig) *Resolver {
	return &Resolver{
		env:      Resolve(cfg.Override, cfg.Release),
		platform: Platform(cfg.Platform),
		lanHost:  cfg.LANHost,
		table:    table,
	}
}

func (r *Resolver) Environment() Environment {
	return r.env
}

// ServiceURL returns the base URL plus path prefix for a named service in the
// resolved environment. For local deployments the host depends on the
// platform: the iOS simulator reaches the machine on localhost, the Android
// emulator through its loopback alias, and a physical device needs the
// configured LAN host.
func (r *Resolver) ServiceURL(service string) (string, error) {
	deployment, ok := r.table[r.env.String()]
	if !ok {
		return "", fmt.Errorf("no service table for environment %q", r.env)
	}
	svc, ok := deployment[service]
	if !ok {
		return "", fmt.Errorf("service %q not configured for environment %q", service, r.env)
	}

	if r.env == Local {
		return fmt.Sprintf("%s:%d%s", r.localHost(), svc.Port, svc.Path), nil
	}
	return svc.BaseURL + svc.Path, nil
}

func (r *Resolver) localHost() string {
	switch r.platform {
	case PlatformIOS:
		return "http://localhost"
	case PlatformAndroid:
		return "http://10.0.2.2"
	default:
		return "http://" + r.lanHost
	}
}

// WebSocketURL converts an http(s) base URL to its ws(s) equivalent.
func WebSocketURL(httpURL string) string {
	if strings.HasPrefix(httpURL, "https://") {
		return "wss://" + strings.TrimPrefix(httpURL, "https://")
	}
	if strings.HasPrefix(httpURL, "http://") {
		return "ws://" + strings.TrimPrefix(httpURL, "http://")
	}
	return httpURL
}
