/*
Package tourguide is a guided-tour session engine: it walks a user through
highlighted elements of an existing UI, one step at a time.

The host registers a step for every element taking part in a tour. The engine
keeps independent tours under string keys, orders their steps, gates
navigation through per-step callbacks and drives an external overlay that
draws the highlight, the backdrop mask and the tooltip.

# Concept

The engine never draws anything and never measures anything by itself. The
host plugs in small ports:

  - domain.Target measures the on-screen box of a step.
  - domain.Wrapper measures a step relative to its scroll container.
  - ports.Scroller or ports.OffsetScroller scrolls that container.
  - ports.Renderer animates the highlight, renders the mask and hides it.
  - ports.Scheduler supplies render frames and timers.

Targets that are not laid out yet simply produce no visual change, so the
engine is safe to drive while the host UI is still mounting.

# Usage

	guide := tourguide.New(tourguide.WithRenderer(myRenderer))
	defer guide.Close()

	ctx := context.Background()
	guide.Register(ctx, "", zone.New(1, zone.WithTarget(searchBox)))
	guide.Register(ctx, "", zone.New(2, zone.WithTarget(profileButton)))

	guide.SetCanvas(ctx, domain.Rect{Width: 390, Height: 844})
	guide.Active().Start(ctx, "")

	// Tooltip buttons:
	guide.Active().Next(ctx)
	guide.Active().Stop(ctx)

# Multiple Tours

Every tour key has its own steps, current step, visibility and event bus.
Use Guide.Controller(key) to drive a specific tour and Guide.SetTourKey to
choose the one the overlay follows.
*/
package tourguide
