/*
Package domain contains the core models of the tour session engine.

It defines the entities shared by the store, the overlay coordinator and the
adapters. This package is kept pure and free of I/O, following the same
hexagonal layout as the rest of the module.

# Key Entities

  - Step: a registered highlight target with an order, presentation hints and
    optional gating callbacks.
  - Rect: a canvas-relative rectangle used for targets, highlights and masks.
  - Outcome: the decision returned by a gating callback (continue, stop, abort).
  - Event: a notification published on a tour's event bus.
*/
package domain
