package docker

import (
	"context"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/go-units"

	"github.com/mmr-tortoise/devenv/internal/model"
)

// Labels docker-compose puts on every container it creates. They are the
// only link between a compose project/service and its containers.
const (
	LabelComposeProject = "com.docker.compose.project"
	LabelComposeService = "com.docker.compose.service"
)

// projectFilter builds the label filter for the containers of project,
// optionally narrowed to one service.
func projectFilter(project, service string) filters.Args {
	args := filters.NewArgs(filters.Arg("label", LabelComposeProject+"="+project))
	if service != "" {
		args.Add("label", LabelComposeService+"="+service)
	}
	return args
}

// ProjectContainers returns the running containers of the compose project,
// sorted by name.
func (c *Client) ProjectContainers(ctx context.Context, project string) ([]model.Container, error) {
	return c.list(ctx, projectFilter(project, ""))
}

// ServiceContainers returns the running containers of one compose service,
// sorted by name. A scaled service has several.
func (c *Client) ServiceContainers(ctx context.Context, project, service string) ([]model.Container, error) {
	return c.list(ctx, projectFilter(project, service))
}

func (c *Client) list(ctx context.Context, f filters.Args) ([]model.Container, error) {
	summaries, err := c.inner.ContainerList(ctx, container.ListOptions{Filters: f})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]model.Container, 0, len(summaries))
	for _, s := range summaries {
		result = append(result, summaryToContainer(s))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// summaryToContainer maps an Engine API summary to model.Container,
// stripping the leading "/" Docker puts on container names.
func summaryToContainer(s container.Summary) model.Container {
	name := ""
	if len(s.Names) > 0 {
		name = strings.TrimPrefix(s.Names[0], "/")
	}
	return model.Container{
		ID:      s.ID,
		Name:    name,
		Project: s.Labels[LabelComposeProject],
		Service: s.Labels[LabelComposeService],
		State:   model.ContainerState(s.State),
		Labels:  s.Labels,
	}
}

// PruneDanglingImages removes untagged images, like "docker image prune -f",
// and returns the number of bytes reclaimed.
func (c *Client) PruneDanglingImages(ctx context.Context) (uint64, error) {
	report, err := c.inner.ImagesPrune(ctx, filters.NewArgs(filters.Arg("dangling", "true")))
	if err != nil {
		return 0, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to prune dangling images",
			err,
		)
	}
	return report.SpaceReclaimed, nil
}

// FormatBytes renders a byte count the way the docker CLI reports
// reclaimed space.
func FormatBytes(n uint64) string {
	return units.HumanSize(float64(n))
}
