// Package playground holds the state behind the interactive graph
// playground: the loaded elements, the active layout preset, the viewport
// zoom, and the selected and hovered nodes.
//
// Elements use the Cytoscape element format ({group, data, classes}) so the
// browser page can hand them to Cytoscape unchanged. [ToGraph] and
// [FromGraph] bridge them to the flowchart model used by the converters.
//
// A [Session] is created with [NewSession] and shared by the terminal UI and
// the HTTP host. All of its methods are safe for concurrent use; user
// interaction arrives as [Event] values through [Session.Dispatch].
//
//	sess, err := playground.NewSession(playground.Options{Dataset: "workflow"})
//	if err != nil {
//	    return err
//	}
//	_ = sess.Dispatch(ctx, playground.Event{Kind: playground.NodeSelected, NodeID: "start"})
//	info, _ := sess.NodeInfo("start")
//	fmt.Println(info.Connections) // "0 in, 1 out"
package playground
