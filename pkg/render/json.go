package render

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/nestmap/pkg/errors"
	"github.com/matzehuels/nestmap/pkg/layout"
)

// WriteJSON writes the layout tree as indented JSON. The output is the
// engine's node structure verbatim, suitable for downstream tooling or
// re-ingestion by the viewer.
func WriteJSON(root *layout.Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(root); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layout JSON")
	}
	return nil
}

// MarshalJSON returns the layout tree as indented JSON bytes.
func MarshalJSON(root *layout.Node) ([]byte, error) {
	b, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout JSON")
	}
	return b, nil
}
