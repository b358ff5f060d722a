package chart

import (
	"encoding/xml"
	"errors"
	"testing"

	"github.com/tsawler/officeconv/model"
)

const barChartXML = `<?xml version="1.0" encoding="UTF-8"?>
<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart"
  xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <c:chart>
    <c:title><c:tx><c:rich><a:p><a:r><a:t>Sales by Region</a:t></a:r></a:p></c:rich></c:tx></c:title>
    <c:plotArea>
      <c:barChart>
        <c:barDir val="bar"/>
        <c:ser>
          <c:idx val="0"/><c:order val="0"/>
          <c:tx><c:strRef><c:strCache><c:pt idx="0"><c:v>2023</c:v></c:pt></c:strCache></c:strRef></c:tx>
          <c:cat><c:strRef><c:strCache>
            <c:pt idx="0"><c:v>North</c:v></c:pt>
            <c:pt idx="1"><c:v>South</c:v></c:pt>
            <c:pt idx="2"><c:v>East</c:v></c:pt>
          </c:strCache></c:strRef></c:cat>
          <c:val><c:numRef><c:numCache>
            <c:pt idx="0"><c:v>10</c:v></c:pt>
            <c:pt idx="2"><c:v>30.5</c:v></c:pt>
          </c:numCache></c:numRef></c:val>
        </c:ser>
        <c:ser>
          <c:idx val="1"/><c:order val="1"/>
          <c:tx><c:v>2024</c:v></c:tx>
          <c:val><c:numRef><c:numCache><c:pt idx="0"><c:v>12</c:v></c:pt></c:numCache></c:numRef></c:val>
        </c:ser>
      </c:barChart>
      <c:valAx><c:title><c:tx><c:rich><a:p><a:r><a:t>Units</a:t></a:r></a:p></c:rich></c:tx></c:title></c:valAx>
    </c:plotArea>
  </c:chart>
</c:chartSpace>`

func TestParseBarChart(t *testing.T) {
	c, err := Parse([]byte(barChartXML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c.Type != model.ChartBar {
		t.Errorf("Type = %v, want Bar", c.Type)
	}
	if c.Title != "Sales by Region" {
		t.Errorf("Title = %q", c.Title)
	}
	if len(c.Categories) != 3 || c.Categories[2] != "East" {
		t.Errorf("Categories = %v", c.Categories)
	}
	if len(c.Series) != 2 {
		t.Fatalf("len(Series) = %d, want 2", len(c.Series))
	}
	if c.Series[0].Name != "2023" || c.Series[1].Name != "2024" {
		t.Errorf("series names = %q, %q", c.Series[0].Name, c.Series[1].Name)
	}
	if got := c.Series[0].Values; len(got) != 3 || got[0] != 10 || got[1] != 0 || got[2] != 30.5 {
		t.Errorf("Series[0].Values = %v", got)
	}
	if got := c.Value(1, 2); got != 0 {
		t.Errorf("Value(1, 2) = %v, want zero padding", got)
	}
}

func TestParseChartTypes(t *testing.T) {
	tests := []struct {
		element string
		extra   string
		want    model.ChartType
	}{
		{"barChart", `<c:barDir val="col"/>`, model.ChartColumn},
		{"lineChart", "", model.ChartLine},
		{"pieChart", "", model.ChartPie},
		{"doughnutChart", "", model.ChartPie},
		{"areaChart", "", model.ChartArea},
		{"scatterChart", "", model.ChartScatter},
		{"radarChart", "", model.ChartOther},
	}

	for _, tt := range tests {
		t.Run(tt.element, func(t *testing.T) {
			data := `<c:chartSpace xmlns:c="c"><c:chart><c:plotArea><c:` + tt.element + `>` + tt.extra +
				`</c:` + tt.element + `></c:plotArea></c:chart></c:chartSpace>`
			c, err := Parse([]byte(data))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if c.Type != tt.want {
				t.Errorf("Type = %v, want %v", c.Type, tt.want)
			}
		})
	}
}

func TestParseScatterUsesXValues(t *testing.T) {
	data := `<c:chartSpace xmlns:c="c"><c:chart><c:plotArea><c:scatterChart><c:ser>
		<c:xVal><c:numRef><c:numCache><c:pt idx="0"><c:v>1</c:v></c:pt><c:pt idx="1"><c:v>2</c:v></c:pt></c:numCache></c:numRef></c:xVal>
		<c:yVal><c:numRef><c:numCache><c:pt idx="0"><c:v>5</c:v></c:pt><c:pt idx="1"><c:v>7</c:v></c:pt></c:numCache></c:numRef></c:yVal>
	</c:ser></c:scatterChart></c:plotArea></c:chart></c:chartSpace>`

	c, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(c.Categories) != 2 || c.Categories[0] != "1" || c.Categories[1] != "2" {
		t.Errorf("Categories = %v", c.Categories)
	}
	if len(c.Series) != 1 || c.Series[0].Name != "Series 1" || c.Series[0].Values[1] != 7 {
		t.Errorf("Series = %+v", c.Series)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte(`<c:chartSpace xmlns:c="c"><c:chart/></c:chartSpace>`)); !errors.Is(err, ErrNoChart) {
		t.Errorf("empty chart error = %v, want ErrNoChart", err)
	}
	if _, err := Parse([]byte(`<c:chartSpace><c:chart>`)); err == nil {
		t.Error("truncated XML should fail")
	}
}

func TestParsePointIndexBounds(t *testing.T) {
	chartWith := func(idx string) []byte {
		return []byte(`<c:chartSpace xmlns:c="c"><c:chart><c:plotArea><c:lineChart><c:ser>
			<c:val><c:numRef><c:numCache>
				<c:pt idx="0"><c:v>1</c:v></c:pt>
				<c:pt idx="` + idx + `"><c:v>2</c:v></c:pt>
			</c:numCache></c:numRef></c:val>
		</c:ser></c:lineChart></c:plotArea></c:chart></c:chartSpace>`)
	}
	tests := []struct {
		name    string
		idx     string
		wantErr bool
		wantLen int
	}{
		{"in range", "3", false, 4},
		{"last allowed", "65535", false, MaxPoints},
		{"negative", "-1", true, 0},
		{"huge", "900000000", true, 0},
		{"one past limit", "65536", true, 0},
		{"not a number", "x", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse(chartWith(tt.idx))
			if tt.wantErr {
				if !errors.Is(err, ErrPointIndex) {
					t.Fatalf("Parse() error = %v, want ErrPointIndex", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := len(c.Series[0].Values); got != tt.wantLen {
				t.Errorf("len(Values) = %d, want %d", got, tt.wantLen)
			}
		})
	}
}

func TestStepIsolated(t *testing.T) {
	p := NewParser()
	p.step(xml.StartElement{Name: xml.Name{Local: "chartSpace"}})
	p.step(xml.StartElement{Name: xml.Name{Local: "pieChart"}})
	p.step(xml.EndElement{Name: xml.Name{Local: "pieChart"}})
	p.step(xml.EndElement{Name: xml.Name{Local: "chartSpace"}})

	c, err := p.Result()
	if err != nil || c.Type != model.ChartPie {
		t.Errorf("Result() = %+v, %v", c, err)
	}
}
