package classifier

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

type ConfusionMatrix struct {
	matrix [][]int
	labels []Label
}

// ClassMetrics holds the per-class scores of a classification report
type ClassMetrics struct {
	Label     Label
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes a confusion matrix the way a classification report does
type Report struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
	Total       int
}

// NewConfusionMatrix counts actual (rows) against predicted (columns) labels.
// Pairs carrying an unknown label are skipped.
func NewConfusionMatrix(actual, predicted []Label) *ConfusionMatrix {
	n := len(Labels)
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
	}

	for i := range actual {
		if i >= len(predicted) {
			break
		}
		a, p := labelIndex(actual[i]), labelIndex(predicted[i])
		if a < 0 || p < 0 {
			continue
		}
		matrix[a][p]++
	}

	return &ConfusionMatrix{
		matrix: matrix,
		labels: Labels,
	}
}

// Count returns how many rows of actual were predicted as predicted
func (cm *ConfusionMatrix) Count(actual, predicted Label) int {
	a, p := labelIndex(actual), labelIndex(predicted)
	if a < 0 || p < 0 {
		return 0
	}
	return cm.matrix[a][p]
}

// Total returns the number of counted pairs
func (cm *ConfusionMatrix) Total() int {
	total := 0
	for _, row := range cm.matrix {
		for _, value := range row {
			total += value
		}
	}
	return total
}

// Report computes precision, recall, f1 and support per class plus averages
func (cm *ConfusionMatrix) Report() Report {
	report := Report{Total: cm.Total()}
	correct := 0

	for i, label := range cm.labels {
		truePos := cm.matrix[i][i]
		falsePos, falseNeg := 0, 0
		for j := range cm.labels {
			if i != j {
				falsePos += cm.matrix[j][i]
				falseNeg += cm.matrix[i][j]
			}
		}
		correct += truePos

		precision := ratio(truePos, truePos+falsePos)
		recall := ratio(truePos, truePos+falseNeg)
		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		metrics := ClassMetrics{
			Label:     label,
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   truePos + falseNeg,
		}
		report.Classes = append(report.Classes, metrics)

		report.MacroAvg.Precision += precision / float64(len(cm.labels))
		report.MacroAvg.Recall += recall / float64(len(cm.labels))
		report.MacroAvg.F1 += f1 / float64(len(cm.labels))
		if report.Total > 0 {
			weight := float64(metrics.Support) / float64(report.Total)
			report.WeightedAvg.Precision += precision * weight
			report.WeightedAvg.Recall += recall * weight
			report.WeightedAvg.F1 += f1 * weight
		}
	}
	report.MacroAvg.Support = report.Total
	report.WeightedAvg.Support = report.Total
	report.Accuracy = ratio(correct, report.Total)
	return report
}

// String renders the matrix as a table
func (cm *ConfusionMatrix) String() string {
	tw := table.NewWriter()
	tw.SetTitle("Confusion Matrix")
	header := table.Row{""}
	for _, label := range cm.labels {
		header = append(header, label.String())
	}
	tw.AppendHeader(header)
	for i, row := range cm.matrix {
		line := table.Row{cm.labels[i].String()}
		for _, value := range row {
			line = append(line, value)
		}
		tw.AppendRow(line)
	}
	return tw.Render()
}

// String renders the report as a table
func (r Report) String() string {
	tw := table.NewWriter()
	tw.SetTitle("Classification Report")
	tw.AppendHeader(table.Row{"", "precision", "recall", "f1-score", "support"})
	for _, class := range r.Classes {
		tw.AppendRow(metricsRow(class.Label.String(), class))
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"accuracy", "", "", fmt.Sprintf("%.2f", r.Accuracy), r.Total})
	tw.AppendRow(metricsRow("macro avg", r.MacroAvg))
	tw.AppendRow(metricsRow("weighted avg", r.WeightedAvg))
	return tw.Render()
}

// Summary is a single line form of the report suited to log output
func (r Report) Summary() string {
	parts := make([]string, 0, len(r.Classes)+1)
	parts = append(parts, fmt.Sprintf("accuracy=%.4f", r.Accuracy))
	for _, class := range r.Classes {
		parts = append(parts, fmt.Sprintf("%s(p=%.2f r=%.2f f1=%.2f n=%d)", class.Label, class.Precision, class.Recall, class.F1, class.Support))
	}
	return strings.Join(parts, " ")
}

func metricsRow(name string, m ClassMetrics) table.Row {
	return table.Row{
		name,
		fmt.Sprintf("%.2f", m.Precision),
		fmt.Sprintf("%.2f", m.Recall),
		fmt.Sprintf("%.2f", m.F1),
		m.Support,
	}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
