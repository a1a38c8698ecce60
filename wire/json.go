package wire

import (
	"bytes"

	gojson "github.com/goccy/go-json"

	wideerrors "github.com/quickwritereader/wideid/errors"
	"github.com/quickwritereader/wideid/types"
)

func marshalJSON(ids []types.WideInt, quoted bool) ([]byte, error) {
	var v any
	if quoted {
		v = types.FormatWide(ids)
	} else {
		nums := make([]int64, len(ids))
		for i, id := range ids {
			nums[i] = int64(id)
		}
		v = nums
	}
	out, err := gojson.Marshal(v)
	if err != nil {
		return nil, wideerrors.Wrap(wideerrors.PhaseEncode, wideerrors.KindInvalidInput, err, "json encode identifiers")
	}
	return out, nil
}

// unmarshalJSON keeps every element raw so numbers are parsed as decimal text
// rather than float64.
func unmarshalJSON(data []byte) ([]types.WideInt, error) {
	var raw []gojson.RawMessage
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return nil, wideerrors.New(wideerrors.PhaseDecode, wideerrors.KindMalformedBuffer).
			Cause(err).
			Detail("identifier json is not an array").
			Build()
	}
	ids := make([]types.WideInt, len(raw))
	for i, elem := range raw {
		text := string(bytes.TrimSpace(elem))
		if len(text) >= 2 && text[0] == '"' {
			var s string
			if err := gojson.Unmarshal(elem, &s); err != nil {
				return nil, wideerrors.InvalidInput(wideerrors.PhaseDecode, i, text, err.Error())
			}
			text = s
		}
		id, err := types.ParseWide(text)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
