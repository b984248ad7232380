package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	"github.com/xh3b4sd/cirrhosis/feature"
	"github.com/xh3b4sd/cirrhosis/patient"
	"github.com/xh3b4sd/cirrhosis/stage"
	"github.com/xh3b4sd/tracer"
)

const (
	DefaultName = "Unknown_Patient"
	Footer      = "Doctor's Signature: ____________________________"
	Layout      = "2006-01-02 , 15:04:05"
	Title       = "Liver Cirrhosis Prediction Report"
)

const (
	colwid = 250
	rowhei = 18
	hedhei = 24
	linhei = 14
)

// Result is the prediction response as sent back by the client. Nothing is
// validated again. Stage and precautions are printed whatever their JSON
// type, missing or empty values fall back to their defaults.
type Result struct {
	Nam string        `json:"patient_name"`
	Sta interface{}   `json:"stage"`
	Pre interface{}   `json:"precautions"`
	For *patient.Form `json:"formData"`
}

type Row struct {
	Par string
	Val string
}

// Report renders results into PDF documents. A Report holds no mutable state
// and may be used by many goroutines at once.
type Report struct {
	// Now is the clock printed into the document, defaults to time.Now.
	Now func() time.Time
	// Unc disables the compression of page streams.
	Unc bool
}

// Filename is the attachment name of the rendered document.
func Filename(res Result) string {
	return fmt.Sprintf("%s_Liver_Cirrhosis_Report.pdf", name(res))
}

// Rows returns the table of the document, one row per form field except the
// patient name, in the order the fields were received.
func Rows(frm *patient.Form) []Row {
	var row []Row

	for _, k := range frm.Keys() {
		if k == feature.Name {
			continue
		}

		val, _ := frm.Get(k)

		row = append(row, Row{
			Par: Label(k),
			Val: display(val),
		})
	}

	return row
}

func (r *Report) Render(res Result) ([]byte, error) {
	var now time.Time
	if r.Now == nil {
		now = time.Now()
	} else {
		now = r.Now()
	}

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(!r.Unc)
	pdf.SetCreationDate(now)
	pdf.SetTitle(Title, true)
	pdf.AddPage()

	tra := pdf.UnicodeTranslatorFromDescriptor("")

	{
		pdf.SetFont("Helvetica", "B", 18)
		pdf.CellFormat(0, 30, Title, "", 1, "C", false, 0, "")
		pdf.Ln(12)
	}

	{
		labeled(pdf, tra, "Patient Name:", strings.ReplaceAll(name(res), "_", " "))
		labeled(pdf, tra, "Date:", now.Format(Layout))
		pdf.Ln(12)
	}

	{
		labeled(pdf, tra, "Predicted Stage:", text(res.Sta, stage.UnknownDescription))
		labeled(pdf, tra, "Precautions:", text(res.Pre, stage.UnknownPrecaution))
		pdf.Ln(12)
	}

	{
		wid, _ := pdf.GetPageSize()
		lef := (wid - 2*colwid) / 2

		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(1)

		pdf.SetX(lef)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(0, 0, 139)
		pdf.SetTextColor(245, 245, 245)
		pdf.CellFormat(colwid, hedhei, "Parameter", "1", 0, "C", true, 0, "")
		pdf.CellFormat(colwid, hedhei, "Value", "1", 1, "C", true, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		for _, w := range Rows(res.For) {
			pdf.SetX(lef)
			pdf.CellFormat(colwid, rowhei, tra(w.Par), "1", 0, "C", false, 0, "")
			pdf.CellFormat(colwid, rowhei, tra(w.Val), "1", 1, "C", false, 0, "")
		}

		pdf.Ln(20)
	}

	{
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, linhei, Footer, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	{
		err := pdf.Output(&buf)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	return buf.Bytes(), nil
}

// Label turns a form key into its display text, e.g. total_bilirubin becomes
// "Total bilirubin".
func Label(key string) string {
	str := strings.ReplaceAll(key, "_", " ")
	if str == "" {
		return str
	}

	fir, siz := utf8.DecodeRuneInString(str)

	return string(unicode.ToUpper(fir)) + strings.ToLower(str[siz:])
}

func display(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return v
	case json.Number:
		return number(v)
	case float64:
		return float(v)
	}

	byt, err := json.Marshal(val)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}

	return string(byt)
}

func labeled(pdf *gofpdf.Fpdf, tra func(string) string, lab string, val string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Write(linhei, lab+" ")
	pdf.SetFont("Helvetica", "", 11)
	pdf.Write(linhei, tra(val))
	pdf.Ln(linhei + 4)
}

func name(res Result) string {
	return strings.ReplaceAll(value(res.Nam, DefaultName), " ", "_")
}

// number prints integers as received and everything else the way Python
// prints a float, e.g. 1.50 becomes 1.5 and 1e2 becomes 100.0.
func number(num json.Number) string {
	str := num.String()
	if !strings.ContainsAny(str, ".eE") {
		return str
	}

	flo, err := strconv.ParseFloat(str, 64)
	if err != nil && !math.IsInf(flo, 0) {
		return str
	}

	return float(flo)
}

func float(flo float64) string {
	if math.IsInf(flo, 1) {
		return "inf"
	}
	if math.IsInf(flo, -1) {
		return "-inf"
	}
	if math.IsNaN(flo) {
		return "nan"
	}

	var exp int
	{
		sci := strconv.FormatFloat(flo, 'e', -1, 64)
		exp, _ = strconv.Atoi(sci[strings.IndexAny(sci, "eE")+1:])
	}

	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(flo, 'e', -1, 64)
	}

	str := strconv.FormatFloat(flo, 'f', -1, 64)
	if !strings.Contains(str, ".") {
		str += ".0"
	}

	return str
}

func text(val interface{}, def string) string {
	if val == nil {
		return def
	}

	return value(display(val), def)
}

func value(str string, def string) string {
	if str == "" {
		return def
	}

	return str
}
