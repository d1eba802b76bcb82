/*
Package modassist is a modifier assistant: it turns a short natural-language command
into a validated, ordered sequence of edits against a 3D scene graph.

An invocation flows through four stages:

  - Interpret: the text is matched against each workflow's keywords.
  - Validate: the current selection is checked against the workflow's requirements.
  - Execute: prerequisites, stage insertions, geometry edits and post actions run in order.
  - Report: exactly one status message is handed back to the host.

The scene itself is a port. Hosts implement ports.SceneGraph (and optionally
ports.UndoRecorder and ports.Checkpointer); pkg/adapters/memory provides an
in-memory scene for tests and the bundled CLI.

# Usage

	scene, err := memory.LoadFile("scene.yaml")
	if err != nil {
		log.Fatal(err)
	}

	assistant, err := modassist.New(scene)
	if err != nil {
		log.Fatal(err)
	}

	out := assistant.Invoke(context.Background(), "add thickness")
	fmt.Println(out.Level, out.Message)
*/
package modassist
