// Package report renders the current-vs-next-level gap analysis for a saved
// assessment.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"maturity.app/assessor/internal/maturity"
	"maturity.app/assessor/internal/model"
)

// NotApplicable is shown as the next level of a sub-dimension already at L.
const NotApplicable = "N/A"

//go:embed templates/*.html
var templateFS embed.FS

var htmlTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

type Row struct {
	Dimension      string `json:"dimension"`
	SubDimension   string `json:"sub_dimension"`
	CurrentLevel   int    `json:"current_level"`
	CurrentSummary string `json:"current_summary"`
	CurrentDetail  string `json:"current_detail,omitempty"`
	NextLevel      *int   `json:"next_level,omitempty"`
	NextSummary    string `json:"next_summary"`
	NextDetail     string `json:"next_detail,omitempty"`
}

func (r Row) AtMax() bool { return r.NextLevel == nil }

// NextLevelNumber is 0 when the sub-dimension is already at its top level.
func (r Row) NextLevelNumber() int {
	if r.NextLevel == nil {
		return 0
	}
	return *r.NextLevel
}

type Report struct {
	SnapshotID int64                 `json:"snapshot_id"`
	Timestamp  string                `json:"timestamp"`
	Overall    maturity.OverallScore `json:"overall"`
	Rows       []Row                 `json:"rows"`
}

type Options struct {
	IncludeDetails bool
}

// Build emits one row per selected sub-dimension, in catalog order.
// Unselected sub-dimensions are left out.
func Build(engine *maturity.Engine, snap model.Snapshot, opts Options) (*Report, error) {
	sel, err := snap.Selection()
	if err != nil {
		return nil, err
	}
	cat := engine.Catalog()
	if err := sel.Validate(cat); err != nil {
		return nil, err
	}

	overall, err := engine.Overall(sel)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		SnapshotID: snap.ID,
		Timestamp:  snap.Timestamp,
		Overall:    overall,
		Rows:       make([]Row, 0, sel.Len()),
	}

	for _, k := range sel.Keys() {
		lvl, _ := sel.Get(k.Dimension, k.SubDimension)
		sd, _ := cat.SubDimension(k.Dimension, k.SubDimension)
		current := sd.Levels[lvl-1]

		row := Row{
			Dimension:      cat.Dimensions[k.Dimension].Name,
			SubDimension:   sd.Name,
			CurrentLevel:   lvl,
			CurrentSummary: current.Summary,
			NextSummary:    NotApplicable,
		}
		if opts.IncludeDetails {
			row.CurrentDetail = current.Detail
		}
		if lvl < len(sd.Levels) {
			next := lvl + 1
			row.NextLevel = &next
			row.NextSummary = sd.Levels[lvl].Summary
			if opts.IncludeDetails {
				row.NextDetail = sd.Levels[lvl].Detail
			}
		}
		rep.Rows = append(rep.Rows, row)
	}
	return rep, nil
}

// Markdown renders the report as a Markdown document with one gap table.
func (r *Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# Maturity gap analysis\n\n")
	fmt.Fprintf(&b, "Snapshot `%d` saved at %s.\n\n", r.SnapshotID, r.Timestamp)

	fmt.Fprintf(&b, "**Overall level:** %s\n\n", r.Headline())

	if len(r.Rows) == 0 {
		b.WriteString("_No sub-dimensions have been rated yet._\n")
		return b.String()
	}

	b.WriteString("| Dimension | Sub-dimension | Current | Next |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, row := range r.Rows {
		next := NotApplicable
		if row.NextLevel != nil {
			next = fmt.Sprintf("Level %d: %s", *row.NextLevel, escapeCell(row.NextSummary))
		}
		fmt.Fprintf(&b, "| %s | %s | Level %d: %s | %s |\n",
			escapeCell(row.Dimension),
			escapeCell(row.SubDimension),
			row.CurrentLevel,
			escapeCell(row.CurrentSummary),
			next,
		)
	}

	var details []Row
	for _, row := range r.Rows {
		if row.CurrentDetail != "" || row.NextDetail != "" {
			details = append(details, row)
		}
	}
	if len(details) > 0 {
		b.WriteString("\n## Details\n")
		for _, row := range details {
			fmt.Fprintf(&b, "\n### %s / %s\n\n", row.Dimension, row.SubDimension)
			if row.CurrentDetail != "" {
				fmt.Fprintf(&b, "- Current: %s\n", row.CurrentDetail)
			}
			if row.NextDetail != "" {
				fmt.Fprintf(&b, "- Next: %s\n", row.NextDetail)
			}
		}
	}
	return b.String()
}

// Headline summarises the overall score in one line.
func (r *Report) Headline() string {
	o := r.Overall
	if !o.Complete() {
		return fmt.Sprintf("incomplete, %d of %d sub-dimensions rated", o.Selected, o.Total)
	}
	out := fmt.Sprintf("%d", *o.RoundedLevel)
	if o.Stage != nil {
		out += fmt.Sprintf(" (%s)", o.Stage.Name)
	}
	return out + fmt.Sprintf(", %.2f%% (%s)", *o.Percentage, o.Policy)
}

// HTML renders the report as a standalone HTML page.
func (r *Report) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, r); err != nil {
		return nil, fmt.Errorf("rendering report html: %w", err)
	}
	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
