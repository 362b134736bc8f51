// Package drawdance implements the paint-engine concurrency and
// state-management core of a collaborative raster drawing application.
//
// # Overview
//
// The engine ingests an ordered stream of drawing commands — from a
// local user, a remote network session, or its own internal control
// messages — applies them to an authoritative canvas history, projects
// a locally-adjusted view on top of the committed state, and renders
// that view tile-by-tile through a worker pool.
//
// # Quick Start
//
//	eng := drawdance.New(paintCtx, previewCtx, acls, nil, saveCB, saveUser)
//	defer drawdance.FreeJoin(eng)
//
//	eng.HandleInc(true, msgs, callbacks)
//	eng.Tick(tickCallbacks)
//	eng.PrepareRender(sizeCB)
//	eng.RenderEverything(tileCB)
//
// # Architecture
//
// Components:
//   - internal/canvas:      immutable, reference-counted canvas state
//   - internal/queue:       dual local/remote FIFO, shared mutex + counting semaphore
//   - internal/history:     authoritative mutator producing new canvas states
//   - internal/paintthread: single consumer draining the queue, batching dabs
//   - internal/preview:     ephemeral cut/dabs overlay applied at render time only
//   - internal/localview:   view-mode, hidden layers, inspect overlay projection
//   - internal/meta:        per-tick aggregation of cursor/laser/ACL traffic
//   - internal/render:      tile-parallel compositor and 8-bit RGBA conversion
//
// Tick and diff emission are thin orchestration over the above and live
// at the package root (tick.go, diff.go), alongside the public Engine
// type (engine.go) and message intake (intake.go).
//
// # Concurrency model
//
// One paint thread mutates canvas history; any number of readers hold
// immutable canvas-state snapshots concurrently; tick and render must
// each be called from a single "frame" thread, matching how a host's
// display-frame loop owns both.
package drawdance
