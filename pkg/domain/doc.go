/*
Package domain contains the core domain model of the modifier assistant.

It defines the values that flow through one invocation: the resolved Command, the
immutable SelectionSnapshot, the static WorkflowRequirement and ProcedureStep tables,
and the ValidationResult/ExecutionResult/Outcome records produced along the way.
This package is kept pure and free of host access, following Hexagonal Architecture
principles: everything that touches the scene graph lives behind pkg/ports.

# Key Entities

  - Entity: an addressable object of the host scene (mesh, curve, empty...).
  - SelectionSnapshot: the selection, active entity and interaction mode captured once per invocation.
  - WorkflowID: the closed set of procedures the assistant knows.
  - ProcedureStep: one ordered, mutating step (prerequisite, stage, geometry edit, post-action).
  - Error: a coded failure (NoSelection, WrongMode, PrerequisiteFailure...).
*/
package domain
