package rover_test

import (
	"context"
	"fmt"

	"github.com/aretw0/rover"
)

func ExampleNew() {
	m, err := rover.New("type_state")
	if err != nil {
		panic(err)
	}

	snap, err := m.Move(context.Background(), "RAALA")
	if err != nil {
		panic(err)
	}
	fmt.Println(snap.Pose)
	fmt.Println(string(snap.State))
	// Output:
	// (2, 1) facing North
	// {"North":{"position":{"x":2,"y":1}}}
}
