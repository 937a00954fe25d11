package core

// ColumnKind 标记列的类型，加载阶段根据单元格内容自动推断。
type ColumnKind string

const (
	// ColumnNumeric 数值列：所有非缺失单元格均可解析为 float64
	ColumnNumeric ColumnKind = "numeric"
	// ColumnText 文本列：至少有一个非缺失单元格无法解析为数值
	ColumnText ColumnKind = "text"
)

// Column 是数据集中的一列。
// 数值列填充 Nums，文本列填充 Strs；Missing 与行号对齐，标记原始缺失位置。
// 同一列只会使用 Nums 或 Strs 之一，由 Kind 决定。
type Column struct {
	Name    string
	Kind    ColumnKind
	Nums    []float64 // Kind == ColumnNumeric 时有效；缺失位置的值未定义，以 Missing 为准
	Strs    []string  // Kind == ColumnText 时有效；缺失位置为 ""
	Missing []bool    // 与行对齐；true 表示原始数据缺失（""、"NA"、"NaN" 等）
}

// Len 返回列的行数。
func (c *Column) Len() int {
	if c.Kind == ColumnNumeric {
		return len(c.Nums)
	}
	return len(c.Strs)
}

// MissingCount 返回缺失单元格数。
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// Dataset 是内存中的表格数据集：按列存储，列有名称和类型。
//
// 不变式：
//   - 所有列行数一致（Rows）
//   - Target 必须是某一列的名称，且特征工程阶段不会把它作为特征输出
type Dataset struct {
	Columns []*Column
	Target  string // 目标列名称
}

// Rows 返回数据集行数。
func (d *Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return d.Columns[0].Len()
}

// Column 按名称查找列；不存在返回 nil。
func (d *Dataset) Column(name string) *Column {
	for _, c := range d.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// TargetColumn 返回目标列；目标列缺失属于加载阶段就该拦截的配置错误。
func (d *Dataset) TargetColumn() *Column {
	return d.Column(d.Target)
}

// FeatureColumns 返回所有非目标列（特征候选列），保持原始顺序。
func (d *Dataset) FeatureColumns() []*Column {
	out := make([]*Column, 0, len(d.Columns))
	for _, c := range d.Columns {
		if c.Name == d.Target {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MissingNumericCells 统计数值列中仍然缺失的单元格总数。
// 清洗阶段完成后此值必须为 0。
func (d *Dataset) MissingNumericCells() int {
	n := 0
	for _, c := range d.Columns {
		if c.Kind != ColumnNumeric {
			continue
		}
		n += c.MissingCount()
	}
	return n
}

// DropColumn 按名称删除列，返回是否删除成功。目标列不可删除。
func (d *Dataset) DropColumn(name string) bool {
	if name == d.Target {
		return false
	}
	for i, c := range d.Columns {
		if c.Name == name {
			d.Columns = append(d.Columns[:i], d.Columns[i+1:]...)
			return true
		}
	}
	return false
}

// SelectRows 按保留掩码过滤行，返回新的 Dataset（过滤阶段使用）。
func (d *Dataset) SelectRows(keep []bool) *Dataset {
	out := &Dataset{Target: d.Target, Columns: make([]*Column, 0, len(d.Columns))}
	for _, c := range d.Columns {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		for i := range keep {
			if !keep[i] {
				continue
			}
			if c.Kind == ColumnNumeric {
				nc.Nums = append(nc.Nums, c.Nums[i])
			} else {
				nc.Strs = append(nc.Strs, c.Strs[i])
			}
			nc.Missing = append(nc.Missing, c.Missing[i])
		}
		out.Columns = append(out.Columns, nc)
	}
	return out
}
