/*
Package ports defines the driven ports (interfaces) of the tour engine.

These interfaces decouple the session store and the overlay coordinator from
the host view tree, so the engine can drive a native UI, a terminal preview
or a test double.

# Key Interfaces

  - Scroller / OffsetScroller: the two scroll primitives a scroll container may expose.
  - Renderer: the external overlay that animates the highlight and draws the mask.
  - Scheduler: frame and timer scheduling on the host event loop.
*/
package ports
