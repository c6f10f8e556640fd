package tourguide_test

import (
	"context"
	"fmt"

	"github.com/aretw0/tourguide"
	"github.com/aretw0/tourguide/pkg/adapters/clock"
	"github.com/aretw0/tourguide/pkg/adapters/static"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/zone"
)

// ExampleNew walks the default tour through two zones and prints the events.
func ExampleNew() {
	ctx := context.Background()
	guide := tourguide.New(tourguide.WithScheduler(clock.NewManual()))
	defer guide.Close()

	tour := guide.Active()
	tour.Events().OnAny(func(e domain.Event) {
		if e.Step == nil {
			fmt.Println(e.Type)
			return
		}
		fmt.Println(e.Type, e.Step.Name)
	})

	guide.Register(ctx, "", zone.New(2, zone.WithTarget(static.NewTarget(domain.Rect{X: 10, Y: 200, Width: 80, Height: 40}))))
	guide.Register(ctx, "", zone.New(1, zone.WithTarget(static.NewTarget(domain.Rect{X: 10, Y: 20, Width: 80, Height: 40}))))

	tour.Start(ctx, "")
	tour.Next(ctx)
	fmt.Println("last:", tour.IsLastStep())
	tour.Next(ctx)
	tour.Stop(ctx)

	// Output:
	// start
	// stepChange 1
	// visible 1
	// stepChange 2
	// last: true
	// stepChange
	// stop
}

// ExampleGuide_Controller shows gating: the first step refuses to advance
// until the user has acted.
func ExampleGuide_Controller() {
	ctx := context.Background()
	guide := tourguide.New(tourguide.WithScheduler(clock.NewManual()))
	defer guide.Close()

	accepted := false
	guide.Register(ctx, "settings", domain.Step{
		Name: "terms",
		OnNext: func(current, candidate *domain.Step) domain.Outcome {
			if !accepted {
				return domain.Abort
			}
			return domain.Continue
		},
	})
	guide.Register(ctx, "settings", domain.Step{Name: "done", Order: 1})

	tour := guide.Controller("settings")
	tour.Start(ctx, "")
	tour.Next(ctx)
	fmt.Println(tour.CurrentStep().Name)

	accepted = true
	tour.Next(ctx)
	fmt.Println(tour.CurrentStep().Name)

	// Output:
	// terms
	// done
}
