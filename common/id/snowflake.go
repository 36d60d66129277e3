// Package id issues snapshot keys. Keys from one node increase strictly with
// each call, which is the ordering the snapshot backends use for "latest".
package id

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu     sync.Mutex
	node   *snowflake.Node
	nodeID int64
)

// Init selects the node id (0-1023) stamped into every key. A second call
// with a different id is an error; repeating the same id is a no-op.
func Init(id int64) error {
	mu.Lock()
	defer mu.Unlock()
	if node != nil {
		if id != nodeID {
			return fmt.Errorf("snowflake node already initialized as %d", nodeID)
		}
		return nil
	}
	n, err := snowflake.NewNode(id)
	if err != nil {
		return fmt.Errorf("creating snowflake node %d: %w", id, err)
	}
	node, nodeID = n, id
	return nil
}

// New returns the next key. Node 0 is used when Init was never called.
func New() int64 {
	mu.Lock()
	if node == nil {
		node, _ = snowflake.NewNode(0)
	}
	n := node
	mu.Unlock()
	return n.Generate().Int64()
}

// String renders a key in the short base58 form used for request ids.
func String(key int64) string {
	return snowflake.ParseInt64(key).Base58()
}
