package main

import (
	"context"
	"time"

	"github.com/aretw0/tourguide"
	"github.com/aretw0/tourguide/internal/scenario"
	"github.com/aretw0/tourguide/pkg/adapters/clock"
	"github.com/aretw0/tourguide/pkg/domain"
)

// guideDriver plays scenario scripts against a Guide on virtual time.
type guideDriver struct {
	guide *tourguide.Guide
	clock *clock.Manual
	regs  map[string]*tourguide.Registration
}

var _ scenario.Driver = (*guideDriver)(nil)

func newGuideDriver(g *tourguide.Guide, c *clock.Manual) *guideDriver {
	return &guideDriver{guide: g, clock: c, regs: make(map[string]*tourguide.Registration)}
}

// mountScenario registers every scenario step and keeps the handles.
func (d *guideDriver) mountScenario(ctx context.Context, s *scenario.Scenario, canvas func() domain.Rect) {
	for _, reg := range mount(ctx, d.guide, s, canvas) {
		d.regs[reg.TourKey()+"/"+reg.Name()] = reg
	}
}

func (d *guideDriver) controller(key string) *tourguide.Controller {
	if key == "" {
		return d.guide.Active()
	}
	return d.guide.Controller(key)
}

func (d *guideDriver) Start(ctx context.Context, key, from string) {
	d.controller(key).Start(ctx, from)
}

func (d *guideDriver) Next(ctx context.Context, key string) { d.controller(key).Next(ctx) }
func (d *guideDriver) Prev(ctx context.Context, key string) { d.controller(key).Prev(ctx) }
func (d *guideDriver) Stop(ctx context.Context, key string) { d.controller(key).Stop(ctx) }

func (d *guideDriver) Unregister(ctx context.Context, key, name string) {
	if key == "" {
		key = d.guide.TourKey()
	}
	id := key + "/" + name
	if reg, ok := d.regs[id]; ok {
		reg.Unregister(ctx)
		delete(d.regs, id)
	}
}

func (d *guideDriver) Press(ctx context.Context, x, y float64) bool {
	return d.guide.Press(ctx, x, y)
}

func (d *guideDriver) SetCanvas(ctx context.Context, r domain.Rect) {
	d.guide.SetCanvas(ctx, r)
}

func (d *guideDriver) SetTourKey(key string) {
	d.guide.SetTourKey(key)
}

func (d *guideDriver) Wait(dur time.Duration) {
	d.clock.Run(dur, domain.FrameInterval)
}
