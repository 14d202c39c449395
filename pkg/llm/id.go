package llm

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// ID prefixes for each kind of object llmock hands out.
const (
	PrefixChatCompletion = "chatcmpl-"
	PrefixResponse       = "resp_"
	PrefixMessage        = "msg_"
)

// NewID returns prefix followed by the 32 hex digits of a random UUID.
// Nothing tracks issued IDs; a v4 UUID has 122 random bits.
func NewID(prefix string) string {
	u := uuid.New()
	return prefix + hex.EncodeToString(u[:])
}
