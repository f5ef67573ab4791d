package build

import (
	"context"
	"time"

	"github.com/protosol/protosol-build/internal/directive"
	"github.com/protosol/protosol-build/pkg/config"
	"github.com/protosol/protosol-build/pkg/logger"
	"github.com/protosol/protosol-build/pkg/platform"
)

// Flow is one schema kind's scan, resolve and compile pipeline.
type Flow interface {
	Run(ctx context.Context) error
}

// Orchestrator runs the proto flow and then the flatbuffer flow. The first
// failure aborts the build; there is no partial mode.
type Orchestrator struct {
	flows  []namedFlow
	logger *logger.Logger
}

type namedFlow struct {
	name string
	flow Flow
}

func NewOrchestrator(cfg *config.Config, p platform.Platform, emitter *directive.Emitter, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.New()
	}
	return &Orchestrator{
		flows: []namedFlow{
			{name: "proto", flow: NewProtoFlow(cfg, p, emitter, log)},
			{name: "flatbuffers", flow: NewFlatbuffersFlow(cfg, p, emitter, log)},
		},
		logger: log,
	}
}

func (o *Orchestrator) Run(ctx context.Context) error {
	start := time.Now()
	for _, nf := range o.flows {
		if err := nf.flow.Run(ctx); err != nil {
			o.logger.Error("schema flow failed", "flow", nf.name, "error", err)
			return err
		}
	}
	o.logger.Info("schema compilation complete", "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
