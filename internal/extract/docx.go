package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/prlpayroll/timecard/internal/model"
	"github.com/prlpayroll/timecard/internal/paycalc"
)

// Minimal WordprocessingML shapes: we only need table cell text and
// document paragraphs. Go's xml package matches unqualified names across
// namespaces, so w:tbl unmarshals into "tbl".
type wordDocument struct {
	Body wordBody `xml:"body"`
}

type wordBody struct {
	Paragraphs []wordParagraph `xml:"p"`
	Tables     []wordTable     `xml:"tbl"`
}

type wordTable struct {
	Rows []wordRow `xml:"tr"`
}

type wordRow struct {
	Cells []wordCell `xml:"tc"`
}

type wordCell struct {
	Paragraphs []wordParagraph `xml:"p"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text []string `xml:"t"`
}

func (p wordParagraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Text {
			b.WriteString(t)
		}
	}
	return b.String()
}

func (c wordCell) text() string {
	parts := make([]string, 0, len(c.Paragraphs))
	for _, p := range c.Paragraphs {
		parts = append(parts, p.text())
	}
	return strings.Join(parts, "\n")
}

var (
	docxDateRe = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}`)
	clientRe   = regexp.MustCompile(`(?i)client[:\-\s]+`)
	siteRe     = regexp.MustCompile(`Site Address[:\-\s]*(.+)`)
)

// ExtractDOCX parses a Word timesheet. The layout is a single table per
// worker: a header cell holding "Client <name>" with the worker's name in
// ALL CAPS on the following line, a "Site Address" cell, and day rows with
// the date in column 0, the day name in column 1 and hours in column 4.
//
// Name fallbacks, in order: ALL-CAPS line under the Client cell, last
// ALL-CAPS paragraph in the document, the filename stem.
func (e *Extractor) ExtractDOCX(path string) (Extraction, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return Extraction{}, fmt.Errorf("open docx %s: %w", path, err)
	}
	defer func() { _ = r.Close() }()

	doc, err := readWordDocument(&r.Reader)
	if err != nil {
		return Extraction{}, fmt.Errorf("parse docx %s: %w", path, err)
	}
	return e.extractFromDocument(doc, path), nil
}

// extractDOCXReader parses DOCX bytes, used for ZIP bundle members.
func (e *Extractor) extractDOCXReader(zr *zip.Reader, name string) (Extraction, error) {
	doc, err := readWordDocument(zr)
	if err != nil {
		return Extraction{}, fmt.Errorf("parse docx %s: %w", name, err)
	}
	return e.extractFromDocument(doc, name), nil
}

func readWordDocument(zr *zip.Reader) (*wordDocument, error) {
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		var doc wordDocument
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}
	return nil, fmt.Errorf("no word/document.xml present")
}

func (e *Extractor) extractFromDocument(doc *wordDocument, sourceFile string) Extraction {
	rec := Extraction{
		SourceFile:  sourceFile,
		ExtractedOn: time.Now(),
	}

	rec.Client, rec.Name = findClientAndName(doc.Body.Tables)

	var dates []time.Time
	for _, table := range doc.Body.Tables {
		for _, row := range table.Rows {
			cells := row.Cells
			if len(cells) >= 5 {
				dayText := strings.TrimSpace(cells[1].text())
				hoursText := strings.TrimSpace(cells[4].text())
				if dayText != "" && hoursText != "" && !isDash(hoursText) {
					rec.Daily = append(rec.Daily, model.DailyHours{
						Category: model.CategoryForDayName(dayText),
						Hours:    paycalc.ParseHours(hoursText),
					})
				}
				dateText := strings.TrimSpace(cells[0].text())
				if docxDateRe.MatchString(dateText) {
					if d, err := time.Parse("02.01.2006", dateText[:10]); err == nil {
						dates = append(dates, d)
					}
				}
			}
			for _, cell := range cells {
				if rec.SiteAddress != "" {
					break
				}
				txt := strings.TrimSpace(cell.text())
				if strings.Contains(txt, "Site Address") {
					if m := siteRe.FindStringSubmatch(txt); m != nil {
						rec.SiteAddress = strings.TrimSpace(m[1])
					}
				}
			}
		}
	}

	if rec.Name == "" {
		rec.Name = nameFromParagraphs(doc.Body.Paragraphs)
	}
	if rec.Name == "" {
		rec.Name = nameFromFilename(sourceFile)
	}

	if len(dates) > 0 {
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		rec.DateRange = fmt.Sprintf("%s–%s",
			dates[0].Format("02.01.2006"),
			dates[len(dates)-1].Format("02.01.2006"))
	}

	return rec
}

// findClientAndName scans table cells for the "Client" header block. The
// client follows the word Client on the same line; the worker's name is the
// next line when it is ALL CAPS with at least two words.
func findClientAndName(tables []wordTable) (client, name string) {
	for _, table := range tables {
		for _, row := range table.Rows {
			for _, cell := range row.Cells {
				txt := cell.text()
				if !strings.Contains(txt, "Client") {
					continue
				}
				lines := nonEmptyLines(txt)
				for i, ln := range lines {
					if !strings.HasPrefix(strings.ToLower(ln), "client") {
						continue
					}
					if parts := clientRe.Split(ln, 2); len(parts) > 1 {
						client = strings.TrimSpace(parts[1])
					}
					if i+1 < len(lines) {
						if cand := lines[i+1]; isAllCapsName(cand) {
							name = titleCase(cand)
						}
					}
					return client, name
				}
			}
		}
	}
	return client, name
}

// nameFromParagraphs walks document paragraphs last-to-first looking for an
// ALL-CAPS name line, skipping company boilerplate.
func nameFromParagraphs(paragraphs []wordParagraph) string {
	for i := len(paragraphs) - 1; i >= 0; i-- {
		text := strings.TrimSpace(paragraphs[i].text())
		if text == "" || strings.Contains(text, "PRL") {
			continue
		}
		if isAllCapsName(text) {
			return titleCase(text)
		}
	}
	return ""
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, ln := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(ln); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func isAllCapsName(s string) bool {
	return s == strings.ToUpper(s) && s != strings.ToLower(s) && len(strings.Fields(s)) >= 2
}

func isDash(s string) bool {
	switch s {
	case "-", "–", "—":
		return true
	}
	return false
}
