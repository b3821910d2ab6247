/*
Package domain contains the core models of the patch graph engine.

It defines the entities a rack is made of and the values that flow between the
graph, the gesture layer and the renderers. This package is kept free of I/O and
of any knowledge about the signal engine beyond the opaque Endpoint it stores.

# Key Entities

  - Module: a named processing unit that owns a registry of jacks and knobs.
  - Jack: a directional port (source or sink) bound to one engine Endpoint.
  - Cable: a directed edge from a source jack to a sink jack, with a color.
  - DragSession: the transient state of one in-flight patching gesture.
  - LifecycleHooks: callbacks used by observability to follow graph mutations.
*/
package domain
