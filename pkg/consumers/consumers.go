// pkg/consumers/consumers.go

// Package consumers stops and restarts the containers that consume brokered
// secrets (the gateway and its task runners). Everything here is best-effort:
// an absent consumer is already in the state lockdown wants.
package consumers

import (
	"context"
	"strings"
	"time"

	"github.com/venom444556/openclaw-secure-deploy/pkg/claw_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const stopTimeoutSeconds = 10

// Manager drives consumer containers through the Docker API.
type Manager struct {
	cli     *client.Client
	filters []string
}

// NewManager connects to the Docker daemon from environment configuration
// with API version negotiation enabled. nameFilters are container-name
// substrings identifying the consumers.
func NewManager(ctx context.Context, nameFilters []string) (*Manager, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, cerr.Wrap(err, "create docker client")
	}
	return &Manager{cli: cli, filters: nameFilters}, nil
}

// Ping validates daemon connectivity within a short window.
func (m *Manager) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := m.cli.Ping(pingCtx)
	return err
}

// StopAll stops every running consumer container. No running match is
// success, not an error.
func (m *Manager) StopAll(rc *claw_io.RuntimeContext) error {
	log := otelzap.Ctx(rc.Ctx)

	containers, err := m.list(rc.Ctx, false)
	if err != nil {
		return err
	}
	if len(containers) == 0 {
		log.Info("No running consumers found, nothing to stop")
		return nil
	}

	timeout := stopTimeoutSeconds
	for _, c := range containers {
		name := displayName(c.Names)
		if err := m.cli.ContainerStop(rc.Ctx, c.ID, container.StopOptions{Timeout: &timeout}); err != nil {
			log.Warn("Failed to stop consumer, continuing",
				zap.String("container", name), zap.Error(err))
			continue
		}
		log.Info("Consumer stopped", zap.String("container", name))
	}
	return nil
}

// StartAll restarts the stopped consumer containers.
func (m *Manager) StartAll(rc *claw_io.RuntimeContext) error {
	log := otelzap.Ctx(rc.Ctx)

	containers, err := m.list(rc.Ctx, true)
	if err != nil {
		return err
	}
	if len(containers) == 0 {
		log.Info("No consumer containers found to start")
		return nil
	}

	for _, c := range containers {
		name := displayName(c.Names)
		if c.State == "running" {
			log.Debug("Consumer already running", zap.String("container", name))
			continue
		}
		if err := m.cli.ContainerStart(rc.Ctx, c.ID, container.StartOptions{}); err != nil {
			log.Warn("Failed to start consumer, continuing",
				zap.String("container", name), zap.Error(err))
			continue
		}
		log.Info("Consumer started", zap.String("container", name))
	}
	return nil
}

// Running lists the names of currently running consumers, for status output.
func (m *Manager) Running(rc *claw_io.RuntimeContext) ([]string, error) {
	containers, err := m.list(rc.Ctx, false)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(containers))
	for _, c := range containers {
		names = append(names, displayName(c.Names))
	}
	return names, nil
}

func (m *Manager) list(ctx context.Context, all bool) ([]container.Summary, error) {
	args := filters.NewArgs()
	for _, f := range m.filters {
		args.Add("name", f)
	}

	listCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	containers, err := m.cli.ContainerList(listCtx, container.ListOptions{All: all, Filters: args})
	if err != nil {
		return nil, cerr.Wrap(err, "list consumer containers")
	}
	return containers, nil
}

func displayName(names []string) string {
	if len(names) == 0 {
		return "(unnamed)"
	}
	return strings.TrimPrefix(names[0], "/")
}
