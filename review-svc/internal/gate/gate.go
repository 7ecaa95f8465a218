// Package gate decides whether a durable review backend is reachable for the
// current process.
package gate

import (
	"strings"

	"github.com/caarlos0/env/v10"
)

// Gate is consulted before any store call. Implementations must be cheap and
// side-effect free; services call it once per operation.
type Gate interface {
	IsAvailable() bool
}

// Func adapts a plain function to a Gate.
type Func func() bool

func (f Func) IsAvailable() bool { return f() }

type static bool

// Static returns a Gate with a fixed answer.
func Static(available bool) Gate { return static(available) }

func (s static) IsAvailable() bool { return bool(s) }

// DeploymentFlags are the hosting signals that imply a durable backend.
type DeploymentFlags struct {
	BackendEnabled bool   `env:"REVIEWS_BACKEND_ENABLED"`
	Context        string `env:"DEPLOY_CONTEXT"`
	URL            string `env:"DEPLOY_URL"`
	Dev            string `env:"DEPLOY_DEV"`
	AppEnv         string `env:"APP_ENV"`
}

func (f DeploymentFlags) Available() bool {
	return f.BackendEnabled ||
		strings.TrimSpace(f.Context) != "" ||
		strings.TrimSpace(f.URL) != "" ||
		strings.TrimSpace(f.Dev) != "" ||
		strings.EqualFold(strings.TrimSpace(f.AppEnv), "production")
}

// FromEnvironment re-reads the deployment flags from environ on every call.
// Pass os.Environ in production; tests pass a fixed snapshot.
func FromEnvironment(environ func() []string) Gate {
	return Func(func() bool {
		flags, err := ParseFlags(environ())
		if err != nil {
			return false
		}
		return flags.Available()
	})
}

func ParseFlags(environ []string) (DeploymentFlags, error) {
	var flags DeploymentFlags
	err := env.ParseWithOptions(&flags, env.Options{Environment: env.ToMap(environ)})
	return flags, err
}
