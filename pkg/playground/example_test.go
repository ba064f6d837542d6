package playground_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/flowbench/pkg/playground"
)

func ExampleSession_NodeInfo() {
	sess, err := playground.NewSession(playground.Options{Dataset: "workflow"})
	if err != nil {
		panic(err)
	}
	_ = sess.Dispatch(context.Background(), playground.Event{Kind: playground.NodeSelected, NodeID: "check_duplicates"})

	info, _ := sess.NodeInfo(sess.State().Selected)
	fmt.Println(info.Title)
	fmt.Println(info.Type, info.Connections)
	// Output:
	// Check for Duplicate Account
	// decision 1 in, 2 out
}
