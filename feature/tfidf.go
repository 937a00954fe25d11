package feature

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
)

// TFIDF 把一列文本转成固定宽度的 TF-IDF 向量空间。
//
// 词表在 Fit 时确定（静态配置，不做运行时决策）：
//   - 按文档频率取 Top MaxFeatures 个词项，频率相同按字典序，保证确定性
//   - NGramMax > 1 时额外产出 2..NGramMax 元词组（空格连接）
//   - StopWords 中的词项被剔除
//
// Transform 输出 sklearn 风格的平滑 IDF 加权词频，并做行级 L2 归一化。
type TFIDF struct {
	MaxFeatures int      // 词表上限；<= 0 表示不限制
	NGramMax    int      // n-gram 上限；<= 1 表示仅 unigram
	StopWords   []string // 停用词（可选）

	terms  []string       // 列号 -> 词项
	vocab  map[string]int // 词项 -> 列号
	idf    []float64
	fitted bool
}

// Fit 在语料上学习词表与 IDF。
func (t *TFIDF) Fit(docs []string) error {
	if len(docs) == 0 {
		return fmt.Errorf("tfidf: empty corpus")
	}

	stop := make(map[string]struct{}, len(t.StopWords))
	for _, w := range t.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}

	// 文档频率统计
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range t.tokenize(doc, stop) {
			seen[term] = struct{}{}
		}
		for term := range seen {
			df[term]++
		}
	}

	// 词表裁剪：df 降序，同 df 按词项字典序，保证两次 Fit 产生相同词表
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if df[terms[i]] != df[terms[j]] {
			return df[terms[i]] > df[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if t.MaxFeatures > 0 && len(terms) > t.MaxFeatures {
		terms = terms[:t.MaxFeatures]
	}
	// 词表内部按字典序排列，列顺序与词项一一对应
	sort.Strings(terms)

	t.terms = terms
	t.vocab = make(map[string]int, len(terms))
	for i, term := range terms {
		t.vocab[term] = i
	}

	// 平滑 IDF：ln((1+n)/(1+df)) + 1
	n := float64(len(docs))
	t.idf = make([]float64, len(terms))
	for i, term := range terms {
		t.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	t.fitted = true
	return nil
}

// Transform 把每个文档变换为 TF-IDF 行向量（L2 归一化）。
func (t *TFIDF) Transform(docs []string) ([][]float64, error) {
	if !t.fitted {
		return nil, fmt.Errorf("tfidf: transform before fit")
	}

	stop := make(map[string]struct{}, len(t.StopWords))
	for _, w := range t.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}

	out := make([][]float64, len(docs))
	for i, doc := range docs {
		row := make([]float64, len(t.terms))
		for _, term := range t.tokenize(doc, stop) {
			if j, ok := t.vocab[term]; ok {
				row[j]++
			}
		}
		for j := range row {
			row[j] *= t.idf[j]
		}
		l2Normalize(row)
		out[i] = row
	}
	return out, nil
}

// FitTransform 先 Fit 再 Transform。
func (t *TFIDF) FitTransform(docs []string) ([][]float64, error) {
	if err := t.Fit(docs); err != nil {
		return nil, err
	}
	return t.Transform(docs)
}

// Terms 返回词表（列顺序）。
func (t *TFIDF) Terms() []string { return t.terms }

// tokenize 小写化后按非字母数字切词，并拼接 n-gram。
func (t *TFIDF) tokenize(doc string, stop map[string]struct{}) []string {
	words := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	kept := words[:0]
	for _, w := range words {
		if _, ok := stop[w]; ok {
			continue
		}
		kept = append(kept, w)
	}

	nMax := t.NGramMax
	if nMax < 1 {
		nMax = 1
	}
	out := make([]string, 0, len(kept)*nMax)
	for n := 1; n <= nMax; n++ {
		for i := 0; i+n <= len(kept); i++ {
			out = append(out, strings.Join(kept[i:i+n], " "))
		}
	}
	return out
}

// l2Normalize 原地做 L2 归一化；全零行保持不变。
func l2Normalize(row []float64) {
	sum := 0.0
	for _, v := range row {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range row {
		row[i] /= norm
	}
}
