package printing

import (
	"bytes"
	"context"
	"html/template"

	quoteapp "github.com/chantier/backend/internal/application/quote"
)

// devisTemplate is the default client-facing devis layout. The template only
// receives the client document projection, which carries no cost data.
const devisTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<title>Devis {{.Number}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11px; color: #1a1a1a; }
h1 { font-size: 18px; margin-bottom: 2px; }
.meta { margin-bottom: 16px; color: #444; }
table { width: 100%; border-collapse: collapse; margin-bottom: 12px; }
th { background: #f0f2f5; text-align: left; padding: 6px 8px; border-bottom: 2px solid #c9ced6; }
td { padding: 5px 8px; border-bottom: 1px solid #e3e6ea; }
td.num, th.num { text-align: right; white-space: nowrap; }
.lot-header td { background: #fafbfc; font-weight: bold; border-bottom: 1px solid #c9ced6; }
.lot-subtotal td { font-style: italic; color: #555; }
.totals { width: 45%; margin-left: auto; }
.totals td { border-bottom: none; padding: 3px 8px; }
.totals tr.grand td { font-weight: bold; border-top: 2px solid #1a1a1a; padding-top: 6px; }
.terms { margin-top: 18px; font-size: 10px; color: #555; }
</style>
</head>
<body>
<h1>Devis {{.Number}}</h1>
<div class="meta">
	<div><strong>Client&nbsp;:</strong> {{.ClientName}}</div>
	{{if nonEmptyStr .Object}}<div><strong>Objet&nbsp;:</strong> {{.Object}}</div>{{end}}
	{{if .ValidityDate}}<div><strong>Valable jusqu'au&nbsp;:</strong> {{frenchDate .ValidityDate}}</div>{{end}}
</div>

<table>
<thead>
<tr>
	<th>D&eacute;signation</th>
	<th>Unit&eacute;</th>
	<th class="num">Quantit&eacute;</th>
	{{if .Presentation.ShowUnitPrices}}<th class="num">PU HT</th>{{end}}
	<th class="num">TVA</th>
	<th class="num">Montant HT</th>
</tr>
</thead>
<tbody>
{{range .Lots}}
<tr class="lot-header"><td colspan="{{if $.Presentation.ShowUnitPrices}}6{{else}}5{{end}}">{{.Code}} &mdash; {{.Label}}</td></tr>
{{range .Lines}}
<tr>
	<td>{{.Designation}}</td>
	<td>{{.Unit}}</td>
	<td class="num">{{quantity .Quantity}}</td>
	{{if $.Presentation.ShowUnitPrices}}<td class="num">{{eurosPtr .UnitPriceHT}}</td>{{end}}
	<td class="num">{{percent .VATRate}}</td>
	<td class="num">{{euros .MontantHT}}</td>
</tr>
{{end}}
{{if hasValue .TotalHT}}
<tr class="lot-subtotal">
	<td colspan="{{if $.Presentation.ShowUnitPrices}}5{{else}}4{{end}}">Sous-total {{.Code}}</td>
	<td class="num">{{eurosPtr .TotalHT}}</td>
</tr>
{{end}}
{{end}}
</tbody>
</table>

{{if .Presentation.ShowVATDetail}}
{{if .VentilationTVA}}
<table style="width: 45%;">
<thead>
<tr><th>Taux TVA</th><th class="num">Base HT</th><th class="num">Montant TVA</th></tr>
</thead>
<tbody>
{{range .VentilationTVA}}
<tr><td>{{percent .Rate}}</td><td class="num">{{euros .Base}}</td><td class="num">{{euros .VAT}}</td></tr>
{{end}}
</tbody>
</table>
{{end}}
{{end}}

<table class="totals">
<tr><td>Total HT</td><td class="num">{{euros .TotalHT}}</td></tr>
<tr class="grand"><td>Total TTC</td><td class="num">{{euros .TotalTTC}}</td></tr>
{{if gt .RetentionPct 0}}
<tr><td>Retenue de garantie ({{.RetentionPct}}&nbsp;%)</td><td class="num">&minus;{{euros .RetentionAmount}}</td></tr>
<tr><td>Net &agrave; payer</td><td class="num">{{euros .NetPayable}}</td></tr>
{{end}}
</table>

{{if nonEmptyStr .PaymentTerms}}
<div class="terms"><strong>Conditions de r&egrave;glement&nbsp;:</strong> {{.PaymentTerms}}</div>
{{end}}
</body>
</html>`

// devisFooter is the per-page chromedp footer template
const devisFooter = `<div style="font-size:8px; width:100%; text-align:center; color:#888;">` +
	`Page <span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// DevisPDFRenderer produces the client-facing PDF of a devis. It renders the
// client document through the HTML template, then hands the HTML to the
// configured renderer.
type DevisPDFRenderer struct {
	tmpl     *template.Template
	renderer HTMLRenderer
}

// NewDevisPDFRenderer creates a devis PDF renderer backed by the given HTML
// renderer
func NewDevisPDFRenderer(renderer HTMLRenderer) (*DevisPDFRenderer, error) {
	tmpl, err := template.New("devis").Funcs(templateFuncs()).Parse(devisTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse devis template", err)
	}
	return &DevisPDFRenderer{
		tmpl:     tmpl,
		renderer: renderer,
	}, nil
}

// RenderHTML produces the HTML document for a devis without converting it to
// PDF. Used by tests and available for preview endpoints.
func (r *DevisPDFRenderer) RenderHTML(doc quoteapp.ClientDocument) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute devis template", err)
	}
	return buf.String(), nil
}

// Render produces the PDF bytes of a devis client document
func (r *DevisPDFRenderer) Render(ctx context.Context, doc quoteapp.ClientDocument) ([]byte, error) {
	html, err := r.RenderHTML(doc)
	if err != nil {
		return nil, err
	}

	result, err := r.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		Title:      "Devis " + doc.Number,
		Margins:    DefaultMargins(),
		FooterHTML: devisFooter,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

var _ quoteapp.PDFRenderer = (*DevisPDFRenderer)(nil)
