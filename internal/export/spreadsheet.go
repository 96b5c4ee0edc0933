package export

import (
	"encoding/xml"
	"io"

	"github.com/rpggio/timestudy/internal/domain/observation"
	"github.com/rpggio/timestudy/internal/domain/summary"
)

const (
	spreadsheetNS  = "urn:schemas-microsoft-com:office:spreadsheet"
	msoApplication = `<?mso-application progid="Excel.Sheet"?>` + "\n"
	headerStyle    = "Header"
)

type workbook struct {
	XMLName    xml.Name    `xml:"Workbook"`
	Xmlns      string      `xml:"xmlns,attr"`
	XmlnsSS    string      `xml:"xmlns:ss,attr"`
	Styles     []style     `xml:"Styles>Style"`
	Worksheets []worksheet `xml:"Worksheet"`
}

type style struct {
	ID   string `xml:"ss:ID,attr"`
	Font font   `xml:"Font"`
}

type font struct {
	Bold int `xml:"ss:Bold,attr"`
}

type worksheet struct {
	Name string `xml:"ss:Name,attr"`
	Rows []row  `xml:"Table>Row"`
}

type row struct {
	StyleID string `xml:"ss:StyleID,attr,omitempty"`
	Cells   []cell `xml:"Cell"`
}

type cell struct {
	Data data `xml:"Data"`
}

type data struct {
	Type  string `xml:"ss:Type,attr"`
	Value string `xml:",chardata"`
}

func text(v string) cell    { return cell{Data: data{Type: "String", Value: v}} }
func number(v float64) cell { return cell{Data: data{Type: "Number", Value: formatNumber(v)}} }

func headerRow(names ...string) row {
	r := row{StyleID: headerStyle}
	for _, n := range names {
		r.Cells = append(r.Cells, text(n))
	}
	return r
}

// WriteSpreadsheet writes a SpreadsheetML 2003 workbook with the
// observation log and a per-element summary sheet.
func WriteSpreadsheet(w io.Writer, primaryVideo string, entries []observation.Entry) error {
	study := worksheet{Name: "Time Study"}
	study.Rows = append(study.Rows,
		row{Cells: []cell{text("Video File:"), text(primaryVideo)}},
		row{},
		headerRow(Header...),
	)
	total := 0.0
	for _, r := range Rows(entries) {
		total += r.Duration
		study.Rows = append(study.Rows, row{Cells: []cell{
			text(r.Timestamp),
			number(float64(r.Segment)),
			number(r.Duration),
			text(r.Element),
			text(r.Description),
			text(r.Observations),
			text(r.People),
			text(r.Category),
		}})
	}
	study.Rows = append(study.Rows,
		row{},
		row{Cells: []cell{text("Total Entries:"), number(float64(len(entries)))}},
		row{Cells: []cell{text("Total Time:"), number(observation.RoundSeconds(total)), text("seconds")}},
	)

	elements := worksheet{Name: "Element Summary"}
	elements.Rows = append(elements.Rows, headerRow("Element", "Count", "Total (sec)", "Average (sec)", "Min (sec)", "Max (sec)", "Std Dev (sec)"))
	for _, st := range summary.ElementStats(entries) {
		elements.Rows = append(elements.Rows, row{Cells: []cell{
			text(st.Name),
			number(float64(st.Count)),
			number(observation.RoundSeconds(st.TotalTime)),
			number(observation.RoundSeconds(st.AvgTime)),
			number(observation.RoundSeconds(st.MinTime)),
			number(observation.RoundSeconds(st.MaxTime)),
			number(observation.RoundSeconds(st.StdDev)),
		}})
	}

	wb := workbook{
		Xmlns:      spreadsheetNS,
		XmlnsSS:    spreadsheetNS,
		Styles:     []style{{ID: headerStyle, Font: font{Bold: 1}}},
		Worksheets: []worksheet{study, elements},
	}
	if _, err := io.WriteString(w, xml.Header+msoApplication); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(wb); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
