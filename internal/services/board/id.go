package board

import (
	"github.com/mcoot/superbowl-squares/internal/dependencies/random"
	"github.com/mcoot/superbowl-squares/internal/model"
)

const (
	// BoardIDLength is the length of generated board codes
	BoardIDLength = 6
	// BoardIDAlphabet is the characters used in board codes (avoid confusing chars)
	BoardIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateBoardID draws a new board code. Uniqueness is left to the store.
func GenerateBoardID(rnd random.Random) model.BoardID {
	return model.BoardID(rnd.String(BoardIDLength, BoardIDAlphabet))
}
