package entity

import (
	"encoding/json"
)

// Cursor is the resumption state of a paged run.
//
// Externally it is the 4-element JSON array [apiKey, token, context, options].
// Context is the remote client context. A decoded cursor keeps its bytes
// exactly and sends them unchanged in the continuation request. The encoded
// array carries an equivalent context: encoding/json compacts it and escapes
// HTML characters.
type Cursor struct {
	APIKey  string
	Token   string
	Context json.RawMessage
	Options *Options
}

// Next returns the cursor for the following page, or nil when token is empty.
func (c *Cursor) Next(token string) *Cursor {
	if token == "" {
		return nil
	}
	return &Cursor{
		APIKey:  c.APIKey,
		Token:   token,
		Context: c.Context,
		Options: c.Options,
	}
}

// MarshalJSON encodes the cursor as its external 4-tuple.
func (c Cursor) MarshalJSON() ([]byte, error) {
	ctx := c.Context
	if len(ctx) == 0 {
		ctx = json.RawMessage("null")
	}
	return json.Marshal([]any{c.APIKey, c.Token, ctx, c.Options})
}
