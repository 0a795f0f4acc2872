package server

import (
	"embed"
	"html/template"

	"moneyviz/internal/config"
	"moneyviz/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

func parsePage() (*template.Template, error) {
	return template.New("page").ParseFS(templateFS, "templates/*.html")
}

// navItems is the navigation bar in display order.
var navItems = []struct{ Name, Label string }{
	{view.ViewDashboard, "仪表盘"},
	{view.ViewAccounts, "账户管理"},
	{view.ViewTransactions, "交易记录"},
	{view.ViewAnalytics, "数据分析"},
}

type navLink struct {
	Name   string
	Label  string
	Active bool
}

type regionView struct {
	ID   string
	HTML template.HTML
}

type pageData struct {
	Title   string
	View    string
	Theme   string
	Version string
	Nav     []navLink
	Regions []regionView
	Notices []view.Notice
}

// pageData collects the regions of the view called name and drains the
// pending notices.
func (s *Server) pageData(name string) pageData {
	d := pageData{
		Title:   "MoneyViz 个人资产管理",
		View:    name,
		Theme:   s.App.Context.Registry.Mode().String(),
		Version: config.GetVersion(),
		Notices: s.App.Context.Notices.Drain(),
	}
	for _, n := range navItems {
		d.Nav = append(d.Nav, navLink{Name: n.Name, Label: n.Label, Active: n.Name == name})
	}
	p, err := s.App.Page(name)
	if err != nil {
		return d
	}
	for _, id := range p.Regions() {
		var html string
		if r, err := s.App.Context.Page.Lookup(id); err == nil {
			html = r.Content()
		}
		// Region content is produced by the view templates and the chart
		// engines, never copied from a request.
		d.Regions = append(d.Regions, regionView{ID: id, HTML: template.HTML(html)})
	}
	return d
}
