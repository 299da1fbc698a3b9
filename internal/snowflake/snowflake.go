package snowflake

import (
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.RWMutex
	node *snowflake.Node
)

// Init initializes the snowflake node with the given node ID.
// Node ID should be unique across all instances (0-1023).
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

// NextID generates a new unique snowflake ID.
// Init must have been called.
func NextID() int64 {
	mu.RLock()
	defer mu.RUnlock()
	return node.Generate().Int64()
}

// Format renders an ID the way it is exposed over JSON.
func Format(id int64) string {
	return strconv.FormatInt(id, 10)
}
