package playlist

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"ytplaylist/internal/domain/entity"
)

// DecodeCursor parses the external 4-tuple form of a continuation cursor and
// validates it. The context element is kept as the exact bytes received.
func DecodeCursor(raw []byte) (*entity.Cursor, error) {
	if !gjson.ValidBytes(raw) {
		return nil, continuationError(ErrInvalidContinuation)
	}
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsArray() {
		return nil, continuationError(ErrInvalidContinuation)
	}
	elems := parsed.Array()
	if len(elems) != 4 {
		return nil, continuationError(ErrInvalidContinuation)
	}

	if elems[0].Type != gjson.String {
		return nil, continuationError(ErrInvalidAPIKey)
	}
	if elems[1].Type != gjson.String {
		return nil, continuationError(ErrInvalidToken)
	}
	if !elems[2].IsObject() {
		return nil, continuationError(ErrInvalidContext)
	}
	if !elems[3].IsObject() {
		return nil, continuationError(ErrInvalidOptions)
	}

	var opts entity.Options
	if err := json.Unmarshal([]byte(elems[3].Raw), &opts); err != nil {
		return nil, continuationError(ErrInvalidOptions)
	}

	cursor := &entity.Cursor{
		APIKey:  elems[0].String(),
		Token:   elems[1].String(),
		Context: json.RawMessage(elems[2].Raw),
		Options: &opts,
	}
	if err := validateCursor(cursor); err != nil {
		return nil, err
	}
	return cursor, nil
}

// validateCursor checks a cursor in the fixed order key, token, context,
// options, paged-only.
func validateCursor(c *entity.Cursor) error {
	if c == nil {
		return continuationError(ErrInvalidContinuation)
	}
	if c.APIKey == "" {
		return continuationError(ErrInvalidAPIKey)
	}
	if c.Token == "" {
		return continuationError(ErrInvalidToken)
	}
	if !gjson.ValidBytes(c.Context) || !gjson.ParseBytes(c.Context).IsObject() {
		return continuationError(ErrInvalidContext)
	}
	if c.Options == nil || c.Options.Validate() != nil {
		return continuationError(ErrInvalidOptions)
	}
	if !c.Options.Paged() {
		return continuationError(ErrPagedOnly)
	}
	return nil
}
