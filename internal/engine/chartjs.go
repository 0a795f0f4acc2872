package engine

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// ChartJS paints Chart.js configurations onto a canvas.
type ChartJS struct {
	live atomic.Int64
}

// NewChartJS creates a Chart.js engine.
func NewChartJS() *ChartJS {
	return &ChartJS{}
}

func (e *ChartJS) Name() string { return "chartjs" }

// Live returns the number of instances not yet destroyed.
func (e *ChartJS) Live() int { return int(e.live.Load()) }

// New creates an instance and paints it once.
func (e *ChartJS) New(c Container, spec Spec) (Instance, error) {
	if c == nil {
		return nil, ErrContainerNotFound
	}
	return start(newInstance(c, spec, &e.live, paintChartJS))
}

func paintChartJS(id string, spec Spec, mode UpdateMode) (Snippet, error) {
	cfg := map[string]any{
		"type":    spec.Type,
		"data":    spec.Data,
		"options": spec.Options,
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return Snippet{}, fmt.Errorf("failed to marshal chart config: %w", err)
	}

	canvasID := id + "-canvas"
	div := fmt.Sprintf(`<div class="chart-wrapper"><canvas id="%s"></canvas></div>`, canvasID)
	script := fmt.Sprintf(`<script>(function(){var el=document.getElementById('%s');if(!el)return;moneyviz.paintChartJS(el,%s,'%s');})();</script>`, canvasID, cfgJSON, mode)

	return Snippet{
		ID:     id,
		Div:    div,
		Script: script,
		HTML:   div + "\n" + script,
	}, nil
}
