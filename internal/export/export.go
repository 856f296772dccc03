// Package export serializes labeled comment records into downloadable files.
//
// Empty-export policy: by default an empty record set renders a headers-only
// file ("[]" for JSON). Callers that disallow empty exports opt into the
// RequireRows option and get a models.EmptyInputError instead.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/fetchora/fetchora/internal/models"
)

// Kind selects the serialization format for an export.
type Kind string

const (
	KindExcel Kind = "xlsx"
	KindCSV   Kind = "csv"
	KindJSON  Kind = "json"
	KindHTML  Kind = "html"
)

const baseFilename = "yt_comments"

// ParseKind maps a caller-supplied format selector onto a Kind.
// Case-insensitive; "excel" is accepted as an alias for "xlsx". Anything else
// fails with models.UnsupportedFormatError before any bytes are produced.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xlsx", "excel":
		return KindExcel, nil
	case "csv":
		return KindCSV, nil
	case "json":
		return KindJSON, nil
	case "html":
		return KindHTML, nil
	}
	return "", &models.UnsupportedFormatError{Kind: s}
}

// File is a rendered export, ready to hand to the caller as a download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Option func(*settings)

type settings struct {
	requireRows bool
}

// RequireRows makes Render fail with models.EmptyInputError on an empty
// record set.
func RequireRows() Option {
	return func(s *settings) {
		s.requireRows = true
	}
}

// Render serializes records into the requested format. Every format emits
// exactly one data row per record, in input order, after a header row
// (JSON emits an array element per record instead).
func Render(records []models.CommentRecord, kind Kind, opts ...Option) (*File, error) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.requireRows && len(records) == 0 {
		return nil, &models.EmptyInputError{}
	}
	if records == nil {
		records = []models.CommentRecord{}
	}

	switch kind {
	case KindCSV:
		return renderCSV(records)
	case KindJSON:
		return renderJSON(records)
	case KindHTML:
		return renderHTML(records)
	case KindExcel:
		return renderExcel(records)
	}
	return nil, &models.UnsupportedFormatError{Kind: string(kind)}
}

func renderCSV(records []models.CommentRecord) (*File, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write((&models.CommentRecord{}).CSVHeader()); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for i := range records {
		if err := w.Write(records[i].ToCSV()); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return &File{
		Name:        baseFilename + ".csv",
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func renderJSON(records []models.CommentRecord) (*File, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshaling records: %w", err)
	}

	return &File{
		Name:        baseFilename + ".json",
		ContentType: "application/json",
		Data:        data,
	}, nil
}

var commentsTable = template.Must(template.New("comments").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>YouTube comments</title></head>
<body>
<table border="1">
<thead>
<tr><th>author</th><th>text</th><th>publishedAt</th><th>likeCount</th><th>sentiment</th></tr>
</thead>
<tbody>
{{- range . }}
<tr><td>{{ .Author }}</td><td>{{ .Text }}</td><td>{{ .PublishedAt }}</td><td>{{ .LikeCount }}</td><td>{{ .Sentiment }}</td></tr>
{{- end }}
</tbody>
</table>
</body>
</html>
`))

func renderHTML(records []models.CommentRecord) (*File, error) {
	var buf bytes.Buffer
	if err := commentsTable.Execute(&buf, records); err != nil {
		return nil, fmt.Errorf("executing html template: %w", err)
	}

	return &File{
		Name:        baseFilename + ".html",
		ContentType: "text/html",
		Data:        buf.Bytes(),
	}, nil
}
