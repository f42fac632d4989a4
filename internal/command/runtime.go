package command

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/devenv/internal/model"
)

// runAttach attaches the terminal to the running container of the service
// named by the first argument. The remaining arguments go to docker attach.
func runAttach(ctx context.Context, env *Env, args []string) error {
	if len(args) == 0 {
		return model.NewCLIError(model.ExitGeneralError, "attach requires a service name")
	}
	service, rest := args[0], args[1:]

	eng, err := env.Engine()
	if err != nil {
		return err
	}
	project := env.Config.ProjectName()
	containers, err := eng.ServiceContainers(ctx, project, service)
	if err != nil {
		return err
	}
	if len(containers) == 0 {
		return model.NewCLIError(model.ExitContainerNotFound,
			fmt.Sprintf("no running container for service %q in project %q", service, project))
	}

	target := containers[0]
	if len(containers) > 1 {
		env.Log.WithFields(logrus.Fields{"service": service, "container": target.Name}).
			Warn("service has several containers, attaching to the first")
	}
	// docker attach takes its options before the container.
	attach := append(concat([]string{"attach"}, rest), target.ID)
	return env.docker(ctx, attach...)
}

// runStats streams live resource usage. Without arguments it covers every
// running container of the project; with arguments they are forwarded
// as-is.
func runStats(ctx context.Context, env *Env, args []string) error {
	if len(args) > 0 {
		return env.docker(ctx, concat([]string{"stats"}, args)...)
	}

	names, err := projectContainerNames(ctx, env)
	if err != nil {
		env.Log.WithError(err).Warn("cannot list project containers, showing all containers")
	}
	return env.docker(ctx, concat([]string{"stats"}, names)...)
}

func projectContainerNames(ctx context.Context, env *Env) ([]string, error) {
	eng, err := env.Engine()
	if err != nil {
		return nil, err
	}
	containers, err := eng.ProjectContainers(ctx, env.Config.ProjectName())
	if err != nil {
		return nil, err
	}
	return model.ContainerNames(containers), nil
}
