package charts

import (
	"encoding/json"
	"fmt"
	"sort"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"moneyviz/internal/chartopts"
	"moneyviz/internal/palette"
)

// Flow is money moving from one node to another.
type Flow struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	Value        float64 `json:"value"`
	FromCategory string  `json:"fromCategory,omitempty"`
	ToCategory   string  `json:"toCategory,omitempty"`
	Label        string  `json:"label,omitempty"`
}

// SankeyInput is a list of flows.
type SankeyInput struct {
	Flows []Flow `json:"flows"`
}

// SankeyNode is one node; Category drives its color and column.
type SankeyNode struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color,omitempty"`
}

// SankeyLink joins two nodes by index.
type SankeyLink struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Value  float64 `json:"value"`
	Label  string  `json:"label,omitempty"`
	Color  string  `json:"color,omitempty"`
}

// SankeyData is a prepared node/link graph.
type SankeyData struct {
	Nodes []SankeyNode `json:"nodes"`
	Links []SankeyLink `json:"links"`
}

// Level places a node category in a column: sources left, targets right,
// everything else in between.
func Level(category string) int {
	switch category {
	case "source":
		return 0
	case "target":
		return 2
	default:
		return 1
	}
}

// SankeyRenderer draws flows between nodes with ECharts.
type SankeyRenderer struct {
	cfg         Config
	palette     *palette.Palette
	nodeWidth   float64
	nodePadding float64
	linkOpacity float64
}

func NewSankey(cfg Config, p *palette.Palette) *SankeyRenderer {
	return &SankeyRenderer{
		cfg:         cfg,
		palette:     orDefault(p),
		nodeWidth:   cfg.Float("nodeWidth", 15),
		nodePadding: cfg.Float("nodePadding", 10),
		linkOpacity: cfg.Float("linkOpacity", 0.5),
	}
}

func (s *SankeyRenderer) Kind() Kind         { return Sankey }
func (s *SankeyRenderer) Engine() EngineKind { return ECharts }
func (s *SankeyRenderer) ChartType() string  { return "sankey" }

func (s *SankeyRenderer) PrepareData(raw any) (any, error) {
	var data SankeyData
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case SankeyInput:
		data = FlowsToGraph(v.Flows)
	case []Flow:
		data = FlowsToGraph(v)
	case SankeyData:
		data = SankeyData{
			Nodes: append([]SankeyNode(nil), v.Nodes...),
			Links: append([]SankeyLink(nil), v.Links...),
		}
	default:
		return nil, fmt.Errorf("unsupported sankey data %T", raw)
	}
	for _, l := range data.Links {
		if l.Source < 0 || l.Source >= len(data.Nodes) || l.Target < 0 || l.Target >= len(data.Nodes) {
			return nil, fmt.Errorf("sankey link %d->%d points outside %d nodes", l.Source, l.Target, len(data.Nodes))
		}
	}
	for i, l := range data.Links {
		if l.Label == "" {
			data.Links[i].Label = data.Nodes[l.Source].Name + " → " + data.Nodes[l.Target].Name
		}
	}
	s.enhance(&data)
	return &sankeyPlot{data: data, renderer: s}, nil
}

// FlowsToGraph turns flows into nodes in first-seen order and links between
// them. Nodes without a category become sources or targets by position.
func FlowsToGraph(flows []Flow) SankeyData {
	var data SankeyData
	index := map[string]int{}
	node := func(name, category, fallback string) int {
		if i, ok := index[name]; ok {
			return i
		}
		if category == "" {
			category = fallback
		}
		index[name] = len(data.Nodes)
		data.Nodes = append(data.Nodes, SankeyNode{Name: name, Category: category})
		return index[name]
	}
	for _, f := range flows {
		from := node(f.From, f.FromCategory, "source")
		to := node(f.To, f.ToCategory, "target")
		label := f.Label
		if label == "" {
			label = f.From + " → " + f.To
		}
		data.Links = append(data.Links, SankeyLink{Source: from, Target: to, Value: f.Value, Label: label})
	}
	return data
}

// enhance colors nodes by category, in order of first appearance, and links
// with the translucent first palette color.
func (s *SankeyRenderer) enhance(d *SankeyData) {
	colors := map[string]string{}
	next := 0
	for i := range d.Nodes {
		n := &d.Nodes[i]
		c, ok := colors[n.Category]
		if !ok {
			c = s.palette.Color(next, palette.Primary)
			colors[n.Category] = c
			next++
		}
		if n.Color == "" {
			n.Color = c
		}
	}
	for i := range d.Links {
		if d.Links[i].Color == "" {
			d.Links[i].Color = s.palette.ColorWithAlpha(0, s.linkOpacity, palette.Primary)
		}
	}
}

func (s *SankeyRenderer) build(d SankeyData) *echarts.Sankey {
	sk := echarts.NewSankey()
	sk.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: s.cfg.String("title", "")}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	nodes := make([]opts.SankeyNode, len(d.Nodes))
	for i, n := range d.Nodes {
		nodes[i] = opts.SankeyNode{Name: n.Name, ItemStyle: &opts.ItemStyle{Color: n.Color}}
	}
	links := make([]opts.SankeyLink, len(d.Links))
	for i, l := range d.Links {
		links[i] = opts.SankeyLink{
			Source: d.Nodes[l.Source].Name,
			Target: d.Nodes[l.Target].Name,
			Value:  float32(l.Value),
		}
	}

	sk.AddSeries(s.cfg.String("title", "sankey"), nodes, links,
		echarts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
		echarts.WithLineStyleOpts(opts.LineStyle{
			Color:     "source",
			Curveness: 0.5,
			Opacity:   float32(s.linkOpacity),
		}),
	)
	return sk
}

func (s *SankeyRenderer) Options(chartopts.Options) chartopts.Options {
	return chartopts.Options{"backgroundColor": "transparent"}
}

// sankeyPlot is prepared sankey data with the option tree that paints it.
type sankeyPlot struct {
	data     SankeyData
	renderer *SankeyRenderer
	chart    *echarts.Sankey
}

func (p *sankeyPlot) sankey() *echarts.Sankey {
	if p.chart == nil {
		p.chart = p.renderer.build(p.data)
	}
	return p.chart
}

func (p *sankeyPlot) Validate() { p.sankey().Validate() }

// JSON adds node geometry and per-node columns to the go-echarts series.
func (p *sankeyPlot) JSON() map[string]interface{} {
	option := p.sankey().JSON()
	raw, err := json.Marshal(option["series"])
	if err != nil {
		return option
	}
	var series []map[string]interface{}
	if err := json.Unmarshal(raw, &series); err != nil || len(series) == 0 {
		return option
	}

	depth := make(map[string]int, len(p.data.Nodes))
	for _, n := range p.data.Nodes {
		depth[n.Name] = Level(n.Category)
	}
	series[0]["nodeWidth"] = p.renderer.nodeWidth
	series[0]["nodeGap"] = p.renderer.nodePadding
	series[0]["layoutIterations"] = 0
	if nodes, ok := series[0]["data"].([]interface{}); ok {
		for _, n := range nodes {
			if m, ok := n.(map[string]interface{}); ok {
				if name, ok := m["name"].(string); ok {
					m["depth"] = depth[name]
				}
			}
		}
	}
	option["series"] = series
	return option
}

func (p *sankeyPlot) Empty() bool { return len(p.data.Links) == 0 }

func (p *sankeyPlot) Rows() []Row {
	rows := make([]Row, len(p.data.Links))
	for i, l := range p.data.Links {
		rows[i] = Row{Label: l.Label, Value: l.Value}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	return rows
}

// SankeyOf returns the graph behind prepared sankey data.
func SankeyOf(prepared any) (SankeyData, bool) {
	p, ok := prepared.(*sankeyPlot)
	if !ok {
		return SankeyData{}, false
	}
	return p.data, true
}
