package output

import (
	"encoding/json"

	"github.com/rgehrsitz/paygo/internal/domain"
)

// JSONFormatter renders the batch as JSON. Amounts are strings so no
// precision is lost.
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(batch *domain.PayrollBatch) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(batch, "", "  ")
	}
	return json.Marshal(batch)
}
