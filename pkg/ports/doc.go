/*
Package ports defines the driven ports (interfaces) of the patch graph engine.

These interfaces decouple the graph from the real-time signal engine and from
the presentation layer, so the same graph can drive an in-process engine, a
remote mirror, or a test double.

# Key Interfaces

  - SignalEngine: materializes and severs physical connections between endpoints.
  - Resetter: optional; lets the rack rebuild an engine from scratch before a resync.
  - ParamSetter: optional; receives knob values for parameter endpoints.
  - Positioner: maps a jack to its on-screen position for renderers.
*/
package ports
