package core

import "gonum.org/v1/gonum/mat"

// FeatureMatrix 是特征工程阶段的产物：一行对应数据集的一行，
// 一列对应一个工程化特征（标准化数值列 + TF-IDF 维度）。
//
// 不变式：行数等于来源 Dataset 的行数；Names 与列一一对应。
type FeatureMatrix struct {
	Names []string   // 特征名（数值列保持原名，文本维度为 <col>_tfidf_<term>）
	Data  *mat.Dense // 稠密矩阵，rows x len(Names)
}

// NewFeatureMatrix 以 names 和按行排布的数据构建特征矩阵。
func NewFeatureMatrix(names []string, rows [][]float64) *FeatureMatrix {
	r := len(rows)
	c := len(names)
	dense := mat.NewDense(r, c, nil)
	for i, row := range rows {
		dense.SetRow(i, row)
	}
	return &FeatureMatrix{Names: names, Data: dense}
}

// Rows 返回行数。
func (m *FeatureMatrix) Rows() int {
	r, _ := m.Data.Dims()
	return r
}

// Cols 返回特征列数。
func (m *FeatureMatrix) Cols() int {
	_, c := m.Data.Dims()
	return c
}

// Row 返回第 i 行的拷贝。
func (m *FeatureMatrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.Data)
}

// At 返回 (i, j) 处的值。
func (m *FeatureMatrix) At(i, j int) float64 {
	return m.Data.At(i, j)
}

// Clone 深拷贝矩阵（解释阶段打乱列时使用，避免污染原始矩阵）。
func (m *FeatureMatrix) Clone() *FeatureMatrix {
	names := make([]string, len(m.Names))
	copy(names, m.Names)
	var dense mat.Dense
	dense.CloneFrom(m.Data)
	return &FeatureMatrix{Names: names, Data: &dense}
}

// SetCol 用 vals 覆盖第 j 列。
func (m *FeatureMatrix) SetCol(j int, vals []float64) {
	m.Data.SetCol(j, vals)
}

// Col 返回第 j 列的拷贝。
func (m *FeatureMatrix) Col(j int) []float64 {
	return mat.Col(nil, j, m.Data)
}
