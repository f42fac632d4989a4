package command

import (
	"context"
	"fmt"
)

// runConfig prints the effective configuration as YAML.
func runConfig(_ context.Context, env *Env, _ []string) error {
	out, err := env.Config.YAML()
	if err != nil {
		return fmt.Errorf("render config: %w", err)
	}
	_, err = env.Out.Write(out)
	return err
}
