package pipeline

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fetchora/fetchora/internal/export"
)

// metrics tracks operational counters across the pipeline. Counters are
// process-wide aggregates; no request data or credentials land here.
var metrics struct {
	Requests        atomic.Int64
	Failures        atomic.Int64
	CommentsFetched atomic.Int64
	PositiveLabels  atomic.Int64
	NegativeLabels  atomic.Int64
	ExportsCSV      atomic.Int64
	ExportsJSON     atomic.Int64
	ExportsHTML     atomic.Int64
	ExportsExcel    atomic.Int64
}

func incrExport(kind export.Kind) {
	switch kind {
	case export.KindCSV:
		metrics.ExportsCSV.Add(1)
	case export.KindJSON:
		metrics.ExportsJSON.Add(1)
	case export.KindHTML:
		metrics.ExportsHTML.Add(1)
	case export.KindExcel:
		metrics.ExportsExcel.Add(1)
	}
}

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"requests":         metrics.Requests.Load(),
		"failures":         metrics.Failures.Load(),
		"comments_fetched": metrics.CommentsFetched.Load(),
		"positive_labels":  metrics.PositiveLabels.Load(),
		"negative_labels":  metrics.NegativeLabels.Load(),
		"exports_csv":      metrics.ExportsCSV.Load(),
		"exports_json":     metrics.ExportsJSON.Load(),
		"exports_html":     metrics.ExportsHTML.Load(),
		"exports_xlsx":     metrics.ExportsExcel.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"requests", "failures", "comments_fetched",
		"positive_labels", "negative_labels",
		"exports_csv", "exports_json", "exports_html", "exports_xlsx",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
