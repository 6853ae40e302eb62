// Package stage is the canvas and play runtime of a 2D game-authoring tool,
// built on [Ebitengine].
//
// A stage has two faces. The [Editor] is an interactive canvas over a
// [ProjectStore]: it projects every scene object into a visual [Node],
// picks the topmost object under the pointer, drives a pointer gesture state
// machine (translate, marquee select, pan and zoom, gizmo handle drags), and
// commits finished edits back to the store. The [Player] plays the authored
// game: a [Multiplexer] keeps one [Runtime] per visited scene, each owning a
// Chipmunk2D physics world (via [cp]) whose bodies are kept in sync with the
// visuals every step.
//
// # Coordinate spaces
//
// Objects are authored in author space: origin at the canvas centre, +Y up.
// Everything handed to the renderer or the physics engine is in render space:
// origin top-left, +Y down. [Canvas] converts between the two. Positions are
// always recomputed from the stored author-space value, never accumulated.
//
// # Quick start
//
//	store := stage.NewMemoryStore(project)
//	ed := stage.NewEditor(store, stage.NewEditorState(project.Scenes[0].ID), stage.DefaultConfig())
//	if err := stage.Run(ed, stage.RunConfig{Title: "Stage", Width: 960, Height: 720}); err != nil {
//		log.Fatal(err)
//	}
//
// Play mode:
//
//	mux := stage.NewMultiplexer(store, luascript.NewCompiler(), stage.DefaultConfig())
//	if err := mux.Start(project.Scenes[0].ID); err != nil {
//		log.Fatal(err)
//	}
//	stage.Run(stage.NewPlayer(mux), stage.RunConfig{Title: "Play", Width: 960, Height: 720})
//
// # Frame loop
//
// Everything runs on the single Ebitengine update callback: input dispatch,
// then logic of the active runtime, then any scene switch it requested, then
// the physics step and visual sync. Costume decoding is the only asynchronous
// step; its results are applied on the frame loop after an identity check.
//
// [Ebitengine]: https://ebitengine.org
// [cp]: https://github.com/jakecoffman/cp
package stage
