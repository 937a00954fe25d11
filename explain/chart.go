package explain

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/rushteam/mlkit/core"
)

// RenderChart 把贡献度最高的 topN 个特征渲染为 PNG 柱状图。
// 负贡献（打乱后分数反而升高）在图上按 0 处理。
func RenderChart(report *core.ExplanationReport, path string, topN int) error {
	top := report.TopN(topN)
	if len(top) == 0 {
		return fmt.Errorf("explain: empty report")
	}

	bars := make([]chart.Value, 0, len(top))
	for _, f := range top {
		v := f.Importance
		if v < 0 {
			v = 0
		}
		bars = append(bars, chart.Value{Label: f.Name, Value: v})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("feature importance (%s, %s)", report.Family, report.Metric),
		Height:   512,
		BarWidth: 40,
		Bars:     bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("explain: create %s: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("explain: render chart: %w", err)
	}
	return nil
}
