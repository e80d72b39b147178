package redis

import (
	"fmt"

	"github.com/mcoot/superbowl-squares/internal/model"
)

// Key prefix for all squares data
const keyPrefix = "squares"

// boardKey returns the Redis key for a Board
func boardKey(id model.BoardID) string {
	return fmt.Sprintf("%s:board:%s", keyPrefix, id)
}

// boardsByStateIndexKey returns the Redis key for the SET of board IDs in a state
func boardsByStateIndexKey(state model.BoardState) string {
	return fmt.Sprintf("%s:idx:boards_by_state:%s", keyPrefix, state)
}
