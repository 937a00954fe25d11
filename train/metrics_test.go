package train

import (
	"math"
	"testing"
)

func TestAccuracy(t *testing.T) {
	got := Accuracy([]float64{0, 1, 1, 0}, []float64{0, 1, 0, 0})
	if got != 0.75 {
		t.Errorf("Accuracy = %v, want 0.75", got)
	}
	if Accuracy(nil, nil) != 0 {
		t.Error("empty input should score 0")
	}
}

func TestPrecisionRecallF1(t *testing.T) {
	yTrue := []float64{1, 1, 0, 0, 1}
	yPred := []float64{1, 0, 1, 0, 1}
	// tp=2 fp=1 fn=1 => prec=2/3 rec=2/3 f1=2/3
	prec, rec, f1 := PrecisionRecallF1(yTrue, yPred)
	if math.Abs(prec-2.0/3) > 1e-12 || math.Abs(rec-2.0/3) > 1e-12 || math.Abs(f1-2.0/3) > 1e-12 {
		t.Errorf("prec/rec/f1 = %v/%v/%v, want 2/3 each", prec, rec, f1)
	}
}

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		proba []float64
		want  float64
	}{
		{
			name:  "perfect ranking",
			yTrue: []float64{0, 0, 1, 1},
			proba: []float64{0.1, 0.2, 0.8, 0.9},
			want:  1,
		},
		{
			name:  "inverted ranking",
			yTrue: []float64{1, 1, 0, 0},
			proba: []float64{0.1, 0.2, 0.8, 0.9},
			want:  0,
		},
		{
			name:  "all tied is chance level",
			yTrue: []float64{0, 1, 0, 1},
			proba: []float64{0.5, 0.5, 0.5, 0.5},
			want:  0.5,
		},
		{
			name:  "partial",
			yTrue: []float64{0, 1, 0, 1},
			proba: []float64{0.3, 0.2, 0.4, 0.9},
			// 正类 (0.2, 0.9) vs 负类 (0.3, 0.4)：2 胜 2 负 => 0.5
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ROCAUC(tt.yTrue, tt.proba)
			if err != nil {
				t.Fatalf("ROCAUC: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ROCAUC = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestROCAUCSingleClass(t *testing.T) {
	if _, err := ROCAUC([]float64{1, 1}, []float64{0.5, 0.6}); err == nil {
		t.Error("expected error when one class is absent")
	}
}

func TestLogLoss(t *testing.T) {
	// 完美预测的 logloss 接近 0
	got := LogLoss([]float64{1, 0}, []float64{1, 0})
	if got > 1e-10 {
		t.Errorf("LogLoss = %v, want ~0", got)
	}
	// 概率 0.5 时 logloss = ln 2
	got = LogLoss([]float64{1, 0}, []float64{0.5, 0.5})
	if math.Abs(got-math.Ln2) > 1e-12 {
		t.Errorf("LogLoss = %v, want ln2", got)
	}
}

func TestScore(t *testing.T) {
	yTrue := []float64{0, 0, 1, 1}
	yPred := []float64{0, 0, 1, 1}
	proba := []float64{0.1, 0.2, 0.8, 0.9}

	tests := []struct {
		metric   string
		nClasses int
		want     float64
		wantErr  bool
	}{
		{metric: MetricAccuracy, nClasses: 2, want: 1},
		{metric: MetricAUC, nClasses: 2, want: 1},
		{metric: MetricF1, nClasses: 2, want: 1},
		{metric: MetricAUC, nClasses: 3, wantErr: true},
		{metric: MetricLogLoss, nClasses: 3, wantErr: true},
		{metric: "r2", nClasses: 2, wantErr: true},
	}

	for _, tt := range tests {
		got, err := Score(tt.metric, yTrue, yPred, proba, tt.nClasses)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Score(%s, %d classes): expected error", tt.metric, tt.nClasses)
			}
			continue
		}
		if err != nil {
			t.Errorf("Score(%s): %v", tt.metric, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Score(%s) = %v, want %v", tt.metric, got, tt.want)
		}
	}

	// logloss 取负后越大越好
	got, err := Score(MetricLogLoss, yTrue, yPred, proba, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got > 0 {
		t.Errorf("negated logloss = %v, want <= 0", got)
	}
}
