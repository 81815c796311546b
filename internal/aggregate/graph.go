package aggregate

import (
	"encoding/json"

	"github.com/anityu45/footprintscan/internal/model"
)

// graphEdge is one (category, node-label) pair in the graph payload.
// Serialized as a two-element array to keep the payload compact.
type graphEdge [2]string

// graphFinding builds the reserved out-of-band entry carrying the graph
// edges for visualization. The entry text starts with the fixed
// model.GraphDataToken so rendering clients can distinguish it from
// ordinary findings; it must not be counted toward displayed totals.
func (a *Aggregator) graphFinding(signals []model.Signal) model.Finding {
	edges := make([]graphEdge, 0, len(signals))
	for _, sig := range signals {
		if !sig.Present {
			continue
		}
		edges = append(edges, graphEdge{sig.Category.String(), sig.Source})
	}

	// Marshal of [][2]string cannot fail; keep the error path anyway so a
	// future payload change does not silently emit a broken token.
	payload, err := json.Marshal(edges)
	if err != nil {
		payload = []byte("[]")
	}

	return model.Finding{
		Type:         model.FindingGraph,
		Text:         model.GraphDataToken + string(payload),
		Severity:     model.SeverityNone,
		SeverityText: model.SeverityNone.String(),
	}
}
