package params

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is prepended to the upper-cased parameter name to form the
// environment variable an EnvProvider reads, e.g. "eye_in_hand" becomes
// HANDEYE_EYE_IN_HAND.
const EnvPrefix = "HANDEYE_"

// EnvProvider reads parameter values from environment variables.
type EnvProvider struct {
	declared map[string]bool
}

func NewEnvProvider() *EnvProvider {
	return &EnvProvider{declared: map[string]bool{}}
}

func (p *EnvProvider) Declare(name string) {
	p.declared[name] = true
}

func envName(name string) string {
	return EnvPrefix + strings.ToUpper(name)
}

func (p *EnvProvider) lookup(name string) (string, error) {
	if !p.declared[name] {
		return "", fmt.Errorf("%w: %q", ErrNotDeclared, name)
	}
	v, ok := os.LookupEnv(envName(name))
	if !ok {
		return "", fmt.Errorf("%w: %q (%s)", ErrNotSet, name, envName(name))
	}
	return v, nil
}

func (p *EnvProvider) GetString(name string) (string, error) {
	return p.lookup(name)
}

func (p *EnvProvider) GetBool(name string) (bool, error) {
	v, err := p.lookup(name)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parameter %q: %s is not a bool: %v", name, envName(name), err)
	}
	return b, nil
}
