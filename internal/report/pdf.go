// Package report renders scouting dossiers as PDF documents.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/scoring"
	"github.com/touchline/scoutbase/pkg/metrics"
)

const qrSizePx = 256

// Renderer produces PDF dossiers.
type Renderer struct {
	verifyBaseURL string
	footer        string
	now           func() time.Time
}

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithVerifyBaseURL enables the verification QR code; the report id is
// appended to the URL.
func WithVerifyBaseURL(u string) Option {
	return func(r *Renderer) { r.verifyBaseURL = u }
}

// WithFooter sets the line printed at the bottom of every page.
func WithFooter(footer string) Option {
	return func(r *Renderer) { r.footer = footer }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRenderer creates a dossier renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dossier renders the scouting report for a player, including the current
// weighted-score breakdown when available.
func (r *Renderer) Dossier(rep *model.ScoutingReport, p *model.Player, b *scoring.Breakdown) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.RecordPDFRenderLatency(float64(time.Since(start).Milliseconds()))
	}()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(rep.Title, true)
	pdf.SetAuthor("scoutbase", true)

	if r.footer != "" {
		footer := r.footer
		pdf.SetFooterFunc(func() {
			pdf.SetY(-15)
			pdf.SetFont("Helvetica", "I", 8)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(0, 10, footer, "", 0, "C", false, 0, "")
		})
	}

	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 12, rep.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", r.now().UTC().Format("2 Jan 2006 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Player block
	r.sectionTitle(pdf, "Player")
	r.keyValue(pdf, "Name", p.Name)
	r.keyValue(pdf, "Club", p.Club)
	r.keyValue(pdf, "Nationality", p.Nationality)
	r.keyValue(pdf, "Position", string(p.Position))
	r.keyValue(pdf, "Age", fmt.Sprintf("%d", p.Age))
	if p.Foot != "" {
		r.keyValue(pdf, "Preferred foot", string(p.Foot))
	}
	if p.HeightCM > 0 {
		r.keyValue(pdf, "Height", fmt.Sprintf("%d cm", p.HeightCM))
	}
	if p.WeightKG > 0 {
		r.keyValue(pdf, "Weight", fmt.Sprintf("%d kg", p.WeightKG))
	}
	if p.LicenseNumber != "" {
		r.keyValue(pdf, "License", p.LicenseNumber)
	}
	pdf.Ln(3)

	// Season block
	r.sectionTitle(pdf, "Season")
	r.keyValue(pdf, "Goals", fmt.Sprintf("%d", p.Goals))
	r.keyValue(pdf, "Assists", fmt.Sprintf("%d", p.Assists))
	r.keyValue(pdf, "Average rating", fmt.Sprintf("%.2f", p.AverageRating))
	r.keyValue(pdf, "Pass accuracy", fmt.Sprintf("%.1f%%", p.PassAccuracy))
	pdf.Ln(3)

	// Attribute bars
	r.sectionTitle(pdf, "Attributes")
	for _, attr := range attributeRows(p.Attributes) {
		r.attributeBar(pdf, attr.name, attr.value)
	}
	pdf.Ln(3)

	// Weighted score block
	if b != nil {
		r.sectionTitle(pdf, "Weighted score")
		r.keyValue(pdf, "Technical", fmt.Sprintf("%.1f", b.TechnicalMean))
		r.keyValue(pdf, "Physical", fmt.Sprintf("%.1f", b.PhysicalMean))
		r.keyValue(pdf, "Mental", fmt.Sprintf("%.1f", b.MentalMean))
		r.keyValue(pdf, "Age factor", fmt.Sprintf("%.1f", b.InvertedAge))
		r.keyValue(pdf, "Potential", fmt.Sprintf("%.1f", b.Potential))
		r.keyValue(pdf, "Overall", fmt.Sprintf("%.2f", b.Score))
		pdf.Ln(3)
	}

	// Assessment block
	r.sectionTitle(pdf, "Assessment")
	r.paragraph(pdf, "Summary", rep.Summary)
	if rep.Strengths != "" {
		r.paragraph(pdf, "Strengths", rep.Strengths)
	}
	if rep.Weaknesses != "" {
		r.paragraph(pdf, "Weaknesses", rep.Weaknesses)
	}
	if rep.Verdict != "" {
		r.paragraph(pdf, "Verdict", rep.Verdict)
	}
	r.keyValue(pdf, "Scout rating", fmt.Sprintf("%d / 10", rep.Rating))

	if rep.Disclaimer != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.MultiCell(0, 4, rep.Disclaimer, "", "L", false)
	}

	if r.verifyBaseURL != "" {
		if err := r.embedQR(pdf, rep.ID); err != nil {
			return nil, fmt.Errorf("embedding verification code: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering dossier: %w", err)
	}
	return buf.Bytes(), nil
}

// ComparisonDossier renders players side by side, one column each, with
// their attribute sets and weighted-score breakdowns. Breakdowns align with
// players by index; a missing breakdown leaves the score rows blank.
func (r *Renderer) ComparisonDossier(players []*model.Player, breakdowns []*scoring.Breakdown) ([]byte, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("comparison needs at least two players, got %d", len(players))
	}

	start := time.Now()
	defer func() {
		metrics.RecordPDFRenderLatency(float64(time.Since(start).Milliseconds()))
	}()

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Player comparison", true)
	pdf.SetAuthor("scoutbase", true)

	if r.footer != "" {
		footer := r.footer
		pdf.SetFooterFunc(func() {
			pdf.SetY(-15)
			pdf.SetFont("Helvetica", "I", 8)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(0, 10, footer, "", 0, "C", false, 0, "")
		})
	}
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 12, "Player comparison", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", r.now().UTC().Format("2 Jan 2006 15:04 MST")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	labelW := 38.0
	colW := (pageW - left - right - labelW) / float64(len(players))

	row := func(label string, value func(i int) string) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(labelW, 6, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		for i := range players {
			pdf.CellFormat(colW, 6, value(i), "", 0, "C", false, 0, "")
		}
		pdf.Ln(6)
	}

	// Header row with player names.
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(labelW, 8, "", "", 0, "L", false, 0, "")
	for _, p := range players {
		pdf.CellFormat(colW, 8, p.Name, "", 0, "C", false, 0, "")
	}
	pdf.Ln(10)

	row("Club", func(i int) string { return players[i].Club })
	row("Position", func(i int) string { return string(players[i].Position) })
	row("Age", func(i int) string { return fmt.Sprintf("%d", players[i].Age) })
	row("Goals", func(i int) string { return fmt.Sprintf("%d", players[i].Goals) })
	row("Assists", func(i int) string { return fmt.Sprintf("%d", players[i].Assists) })
	row("Avg rating", func(i int) string { return fmt.Sprintf("%.2f", players[i].AverageRating) })
	row("Pass accuracy", func(i int) string { return fmt.Sprintf("%.1f%%", players[i].PassAccuracy) })
	row("Potential", func(i int) string { return fmt.Sprintf("%d", players[i].Potential) })
	pdf.Ln(2)

	for _, attr := range attributeRows(players[0].Attributes) {
		name := attr.name
		row(name, func(i int) string {
			for _, a := range attributeRows(players[i].Attributes) {
				if a.name == name {
					return fmt.Sprintf("%d", a.value)
				}
			}
			return ""
		})
	}
	pdf.Ln(2)

	score := func(i int, f func(*scoring.Breakdown) string) string {
		if i >= len(breakdowns) || breakdowns[i] == nil {
			return ""
		}
		return f(breakdowns[i])
	}
	row("Technical mean", func(i int) string {
		return score(i, func(b *scoring.Breakdown) string { return fmt.Sprintf("%.1f", b.TechnicalMean) })
	})
	row("Physical mean", func(i int) string {
		return score(i, func(b *scoring.Breakdown) string { return fmt.Sprintf("%.1f", b.PhysicalMean) })
	})
	row("Mental mean", func(i int) string {
		return score(i, func(b *scoring.Breakdown) string { return fmt.Sprintf("%.1f", b.MentalMean) })
	})
	row("Weighted score", func(i int) string {
		return score(i, func(b *scoring.Breakdown) string { return fmt.Sprintf("%.2f", b.Score) })
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering comparison dossier: %w", err)
	}
	return buf.Bytes(), nil
}

type attributeRow struct {
	name  string
	value int
}

// attributeRows flattens the fixed attribute set in category order.
func attributeRows(a model.Attributes) []attributeRow {
	return []attributeRow{
		{"Passing", a.Passing},
		{"Dribbling", a.Dribbling},
		{"Shooting", a.Shooting},
		{"First touch", a.FirstTouch},
		{"Crossing", a.Crossing},
		{"Pace", a.Pace},
		{"Stamina", a.Stamina},
		{"Strength", a.Strength},
		{"Agility", a.Agility},
		{"Jumping", a.Jumping},
		{"Vision", a.Vision},
		{"Positioning", a.Positioning},
		{"Composure", a.Composure},
		{"Work rate", a.WorkRate},
		{"Decisions", a.Decisions},
	}
}

// attributeBar draws one labelled 0-100 bar.
func (r *Renderer) attributeBar(pdf *gofpdf.Fpdf, name string, value int) {
	const barW, barH = 100.0, 3.5

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(30, 5, name, "", 0, "L", false, 0, "")

	x, y := pdf.GetX(), pdf.GetY()
	pdf.SetFillColor(230, 230, 230)
	pdf.Rect(x, y+0.75, barW, barH, "F")
	pdf.SetFillColor(60, 120, 200)
	pdf.Rect(x, y+0.75, barW*float64(value)/100.0, barH, "F")

	pdf.SetX(x + barW + 3)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 5, fmt.Sprintf("%d", value), "", 1, "L", false, 0, "")
}

// embedQR draws the verification QR code in the top-right corner.
func (r *Renderer) embedQR(pdf *gofpdf.Fpdf, reportID string) error {
	png, err := qrcode.Encode(r.verifyBaseURL+"/"+reportID, qrcode.Medium, qrSizePx)
	if err != nil {
		return err
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("verify-qr", 170, 10, 28, 28, false, opts, 0, "")
	return nil
}

func (r *Renderer) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func (r *Renderer) keyValue(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(40, 6, key, "", 0, "L", false, 0, "")
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (r *Renderer) paragraph(pdf *gofpdf.Fpdf, title, text string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(50, 50, 50)
	pdf.MultiCell(0, 5, text, "", "L", false)
	pdf.Ln(2)
}
