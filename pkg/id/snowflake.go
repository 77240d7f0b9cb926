package id

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node    *snowflake.Node
	initErr error
	once    sync.Once
)

// Init initializes the Snowflake node with the given node ID. Only the first
// call takes effect; later calls return the first call's error.
func Init(nodeID int64) error {
	once.Do(func() {
		node, initErr = snowflake.NewNode(nodeID)
	})
	return initErr
}

// Next returns a time-ordered int64 that is unique across instances.
// Falls back to node 0 when Init was never called.
func Next() int64 {
	if err := Init(0); err != nil {
		panic(fmt.Sprintf("snowflake node not initialized: %v", err))
	}
	return node.Generate().Int64()
}
