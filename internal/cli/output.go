package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/quickwritereader/wideid/types"
	"github.com/quickwritereader/wideid/wire"
)

// writeWire encodes ids in format f to path, or to w when path is empty.
// Binary formats are hex encoded on a terminal stream.
func writeWire(w io.Writer, path string, ids []types.WideInt, f wire.Format) error {
	data, err := wire.Marshal(ids, f)
	if err != nil {
		return err
	}
	if path != "" {
		return os.WriteFile(path, data, 0o644)
	}
	switch f {
	case wire.JSON, wire.JSONNumber:
		_, err = fmt.Fprintln(w, string(data))
	default:
		_, err = fmt.Fprintln(w, hex.EncodeToString(data))
	}
	return err
}
