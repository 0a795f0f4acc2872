package engine

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"moneyviz/internal/chartopts"
)

// EChart is the part of a go-echarts chart the engine needs.
type EChart interface {
	Validate()
	JSON() map[string]interface{}
}

// ECharts paints go-echarts option trees into a div.
type ECharts struct {
	live   atomic.Int64
	height string
}

// NewECharts creates an ECharts engine; charts get the given CSS height.
func NewECharts(height string) *ECharts {
	if height == "" {
		height = "400px"
	}
	return &ECharts{height: height}
}

func (e *ECharts) Name() string { return "echarts" }

// Live returns the number of instances not yet destroyed.
func (e *ECharts) Live() int { return int(e.live.Load()) }

// New creates an instance and paints it once.
func (e *ECharts) New(c Container, spec Spec) (Instance, error) {
	if c == nil {
		return nil, ErrContainerNotFound
	}
	height := e.height
	return start(newInstance(c, spec, &e.live, func(id string, spec Spec, mode UpdateMode) (Snippet, error) {
		return paintECharts(id, height, spec, mode)
	}))
}

func paintECharts(id, height string, spec Spec, mode UpdateMode) (Snippet, error) {
	chart, ok := spec.Data.(EChart)
	if !ok {
		return Snippet{}, fmt.Errorf("echarts engine needs a go-echarts chart, got %T", spec.Data)
	}
	chart.Validate()

	option := chartopts.DeepMerge(chartopts.Options(chart.JSON()), spec.Options)
	optJSON, err := json.Marshal(option)
	if err != nil {
		return Snippet{}, fmt.Errorf("failed to marshal echarts option: %w", err)
	}

	div := fmt.Sprintf(`<div id="%s-echarts" style="width:100%%;height:%s;"></div>`, id, height)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s-echarts');if(!el)return;moneyviz.paintECharts(el,%s,'%s');})();</script>`, id, optJSON, mode)

	return Snippet{
		ID:     id,
		Div:    div,
		Script: script,
		HTML:   div + "\n" + script,
	}, nil
}
