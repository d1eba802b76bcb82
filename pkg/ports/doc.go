/*
Package ports defines the driven ports (interfaces) of the modifier assistant.

These interfaces decouple the engine from the host application: the engine never names
a host API, it only consumes the capability set below. The in-memory adapter in
pkg/adapters/memory is the reference implementation and must pass RunSceneGraphContract.

# Key Interfaces

  - SceneGraph: read the selection and entities, apply transforms, insert stages, edit geometry.
  - Reporter: the host's two-level status message facility.
  - UndoRecorder: groups all mutations of one invocation into one undoable action.
  - Checkpointer: optional per-entity checkpoints used by the compensating rollback policy.
*/
package ports
