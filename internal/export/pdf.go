package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/presu/internal/model"
)

// ErrDocumentGeneration is the single error callers see when rendering fails.
var ErrDocumentGeneration = errors.New("could not generate document")

var (
	grey      = &props.Color{Red: 100, Green: 100, Blue: 100}
	dark      = &props.Color{Red: 33, Green: 37, Blue: 41}
	white     = &props.Color{Red: 255, Green: 255, Blue: 255}
	altRowBg  = &props.Color{Red: 248, Green: 249, Blue: 250}
	sectionBg = &props.Color{Red: 245, Green: 243, Blue: 239}
)

// render is swapped in tests to exercise failure handling.
var render = RenderPDF

// Artifact is a generated file held in memory until it is written.
type Artifact struct {
	Name string
	Data []byte
}

// PDF renders the quote for b. Any failure inside rendering, including a
// panic, is reported as ErrDocumentGeneration and no bytes are returned.
func PDF(b model.Budget, p model.BusinessProfile, f Format) (a Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("id", b.ID).Msg("pdf generation panicked")
			a, err = Artifact{}, fmt.Errorf("%w: %v", ErrDocumentGeneration, r)
		}
	}()

	data, err := render(BuildDocument(b, p, f))
	if err != nil {
		log.Error().Err(err).Str("id", b.ID).Msg("pdf generation failed")
		return Artifact{}, fmt.Errorf("%w: %v", ErrDocumentGeneration, err)
	}
	return Artifact{Name: FileName(b), Data: data}, nil
}

// RenderPDF lays out doc on A4 pages using maroto.
func RenderPDF(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addLetterhead(m, doc)
	addClientBlock(m, doc)
	addItemsTable(m, doc)
	addMaterials(m, doc)
	addTotals(m, doc)
	addObservations(m, doc)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating pdf: %w", err)
	}
	return out.GetBytes(), nil
}

func addLetterhead(m core.Maroto, doc Document) {
	lh := doc.Letterhead
	if len(lh.Logo) > 0 {
		m.AddRows(row.New(22).Add(
			col.New(3).Add(image.NewFromBytes(lh.Logo, extension.Type(lh.LogoExt), props.Rect{Percent: 90})),
			col.New(9),
		))
	}

	m.AddRows(
		row.New(10).Add(
			col.New(8).Add(text.New(lh.BusinessName, props.Text{
				Size:  15,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: dark,
			})),
			col.New(4).Add(text.New("QUOTE", props.Text{
				Size:  14,
				Style: fontstyle.Bold,
				Align: align.Right,
				Color: dark,
			})),
		),
		row.New(6).Add(
			col.New(8).Add(text.New(lh.OwnerName, props.Text{Size: 9, Align: align.Left})),
			col.New(4).Add(text.New("No. "+doc.BudgetID, props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Right,
			})).WithStyle(&props.Cell{BackgroundColor: sectionBg}),
		),
	)

	contact := joinNonEmpty(" | ", lh.Email, lh.Phone, lh.Address)
	if contact != "" {
		m.AddRows(row.New(6).Add(
			col.New(12).Add(text.New(contact, props.Text{Size: 8, Align: align.Left, Color: grey})),
		))
	}
	m.AddRows(row.New(4))
}

func addClientBlock(m core.Maroto, doc Document) {
	label := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: grey}
	rightLabel := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right, Color: grey}
	value := props.Text{Size: 9, Align: align.Left}
	rightValue := props.Text{Size: 9, Align: align.Right}
	cell := &props.Cell{BackgroundColor: sectionBg}

	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New("CLIENT", label)).WithStyle(cell),
			col.New(6).Add(text.New("DATES", rightLabel)).WithStyle(cell),
		),
		row.New(7).Add(
			col.New(6).Add(text.New(doc.Client.Name, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left})),
			col.New(3).Add(text.New("Issued:", rightLabel)),
			col.New(3).Add(text.New(doc.Client.IssueDate, rightValue)),
		),
		row.New(7).Add(
			col.New(6).Add(text.New(joinNonEmpty(" | ", doc.Client.Phone, doc.Client.Email), value)),
			col.New(3).Add(text.New("Valid until:", rightLabel)),
			col.New(3).Add(text.New(doc.Client.ValidUntil, rightValue)),
		),
		row.New(4),
	)
}

func addItemsTable(m core.Maroto, doc Document) {
	head := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: white}
	headLeft := head
	headLeft.Align = align.Left
	headCell := &props.Cell{BackgroundColor: dark}

	m.AddRows(row.New(8).Add(
		col.New(5).Add(text.New("Description", headLeft)).WithStyle(headCell),
		col.New(1).Add(text.New("Unit", head)).WithStyle(headCell),
		col.New(2).Add(text.New("Qty", head)).WithStyle(headCell),
		col.New(2).Add(text.New("Unit price", head)).WithStyle(headCell),
		col.New(2).Add(text.New("Total", head)).WithStyle(headCell),
	))

	body := props.Text{Size: 8, Align: align.Center}
	bodyLeft := props.Text{Size: 8, Align: align.Left}
	bodyRight := props.Text{Size: 8, Align: align.Right}

	for i, it := range doc.Items {
		cols := []core.Col{
			col.New(5).Add(text.New(it.Description, bodyLeft)),
			col.New(1).Add(text.New(it.Unit, body)),
			col.New(2).Add(text.New(it.Quantity, bodyRight)),
			col.New(2).Add(text.New(it.UnitPrice, bodyRight)),
			col.New(2).Add(text.New(it.LineTotal, bodyRight)),
		}
		if i%2 == 1 {
			for j := range cols {
				cols[j] = cols[j].WithStyle(&props.Cell{BackgroundColor: altRowBg})
			}
		}
		m.AddRows(row.New(7).Add(cols...))
	}
	m.AddRows(row.New(4))
}

func addMaterials(m core.Maroto, doc Document) {
	if len(doc.Materials) == 0 {
		return
	}
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: dark}
	cell := &props.Cell{BackgroundColor: sectionBg}

	m.AddRows(row.New(7).Add(
		col.New(8).Add(text.New("Required materials", label)).WithStyle(cell),
		col.New(4).Add(text.New("Quantity", label)).WithStyle(cell),
	))
	for _, mat := range doc.Materials {
		m.AddRows(row.New(6).Add(
			col.New(8).Add(text.New(mat.Name, props.Text{Size: 8, Align: align.Left})),
			col.New(4).Add(text.New(mat.Quantity, props.Text{Size: 8, Align: align.Left})),
		))
	}
	m.AddRows(row.New(4))
}

func addTotals(m core.Maroto, doc Document) {
	for _, t := range doc.Totals {
		style := props.Text{Size: 9, Align: align.Right}
		height := 6.0
		if t.Grand {
			style = props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right, Color: dark}
			height = 9
		}
		r := row.New(height).Add(
			col.New(8).Add(text.New(t.Label, style)),
			col.New(4).Add(text.New(t.Amount, style)),
		)
		if t.Grand {
			r = r.WithStyle(&props.Cell{BackgroundColor: sectionBg})
		}
		m.AddRows(r)
	}
}

func addObservations(m core.Maroto, doc Document) {
	if doc.Observations == "" {
		return
	}
	m.AddRows(
		row.New(6),
		row.New(6).Add(col.New(12).Add(text.New("OBSERVATIONS", props.Text{
			Size:  7,
			Style: fontstyle.Bold,
			Align: align.Left,
			Color: grey,
		}))),
		row.New(12).Add(col.New(12).Add(text.New(doc.Observations, props.Text{Size: 8, Align: align.Left}))),
	)
}

// WriteArtifact writes a to dir through a temp file and rename, so a failed
// write never leaves a partial file behind. It returns the final path.
func WriteArtifact(dir string, a Artifact) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".presu-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(a.Data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing %s: %w", a.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", a.Name, err)
	}

	dest := filepath.Join(dir, a.Name)
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("moving %s into place: %w", a.Name, err)
	}
	log.Info().Str("path", dest).Int("bytes", len(a.Data)).Msg("artifact written")
	return dest, nil
}
