package vector

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pkg/utils"
)

// tokenPattern 按非字母数字切词，编译一次全局复用。
var tokenPattern = regexp.MustCompile(`[^a-z0-9]+`)

// TFIDFIndex 是基于词袋 + TF-IDF 的内容相似索引，实现 core.SimilarityIndex。
//
// 构建：对目录快照全量扫描一次——每部电影拼接
// title/genres/director/cast/plot/keywords 的小写文本，去停用词，
// 以平滑 IDF 加权后做 L2 归一化；之后索引不可变，可并发读。
// 换一份目录就重建一个索引，不做增量更新。
//
// 相似度是归一化向量的点积（余弦），范围 [0,1]：
// 罕见的区分词（导演名、冷门关键词）权重高于大量电影共享的类型词。
type TFIDFIndex struct {
	movies  []*core.Movie // 目录序
	byTitle map[string]int
	byID    map[int64]int
	vectors []map[string]float64
}

// Options 是索引构建参数。
type Options struct {
	// MaxFeatures 词表上限；超过时保留文档频率最高的 MaxFeatures 个词。
	// <= 0 时取默认 5000。
	MaxFeatures int

	// StopWords 自定义停用词表；nil 时使用内置英文停用词。
	StopWords map[string]struct{}
}

// BuildTFIDF 对目录快照构建索引。空目录返回空索引（查询统一未命中），不报错。
func BuildTFIDF(ctx context.Context, catalog core.Catalog, opts ...Options) *TFIDFIndex {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.MaxFeatures <= 0 {
		opt.MaxFeatures = 5000
	}
	stop := opt.StopWords
	if stop == nil {
		stop = defaultStopWords
	}

	idx := &TFIDFIndex{
		byTitle: make(map[string]int),
		byID:    make(map[int64]int),
	}
	if catalog == nil {
		return idx
	}

	movies := catalog.All(ctx)
	if len(movies) == 0 {
		return idx
	}

	idx.movies = movies
	idx.vectors = make([]map[string]float64, len(movies))

	// 1. 分词统计：每篇词频 + 全局文档频率
	termFreqs := make([]map[string]float64, len(movies))
	docFreq := make(map[string]int)
	for i, m := range movies {
		if m == nil {
			termFreqs[i] = map[string]float64{}
			continue
		}
		// 标题精确查找表：同名电影保留目录序靠前的一部
		title := strings.ToLower(strings.TrimSpace(m.Title))
		if _, exists := idx.byTitle[title]; !exists && title != "" {
			idx.byTitle[title] = i
		}
		idx.byID[m.ID] = i

		tf := make(map[string]float64)
		for _, tok := range tokenize(m.SearchText(), stop) {
			tf[tok]++
		}
		termFreqs[i] = tf
		for term := range tf {
			docFreq[term]++
		}
	}

	// 2. 词表裁剪：按文档频率保留 TopN（同频按字典序，保证确定性）
	vocab := docFreq
	if len(docFreq) > opt.MaxFeatures {
		type termDF struct {
			term string
			df   int
		}
		terms := make([]termDF, 0, len(docFreq))
		for t, df := range docFreq {
			terms = append(terms, termDF{t, df})
		}
		sort.Slice(terms, func(i, j int) bool {
			if terms[i].df != terms[j].df {
				return terms[i].df > terms[j].df
			}
			return terms[i].term < terms[j].term
		})
		vocab = make(map[string]int, opt.MaxFeatures)
		for _, td := range terms[:opt.MaxFeatures] {
			vocab[td.term] = td.df
		}
	}

	// 3. TF-IDF 加权 + L2 归一化
	n := float64(len(movies))
	for i, tf := range termFreqs {
		vec := make(map[string]float64, len(tf))
		var norm float64
		for term, count := range tf {
			df, ok := vocab[term]
			if !ok {
				continue
			}
			// 平滑 IDF：log((1+N)/(1+df)) + 1，df==N 时仍保留正权重
			idf := math.Log((1+n)/(1+float64(df))) + 1
			w := count * idf
			vec[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		idx.vectors[i] = vec
	}

	return idx
}

var _ core.SimilarityIndex = (*TFIDFIndex)(nil)

// Size 返回索引覆盖的电影数量。
func (idx *TFIDFIndex) Size() int {
	return len(idx.movies)
}

// Similarity 返回两部电影的余弦相似度；任一 ID 未入索引时返回 0。
func (idx *TFIDFIndex) Similarity(a, b int64) float64 {
	ia, ok := idx.byID[a]
	if !ok {
		return 0
	}
	ib, ok := idx.byID[b]
	if !ok {
		return 0
	}
	return dot(idx.vectors[ia], idx.vectors[ib])
}

// MostSimilar 返回与 title（精确、大小写不敏感）对应电影最相似的 topN 部。
// 标题未命中或索引为空返回 (nil, false)；种子电影自身被排除；
// 同分按目录序稳定排序。
func (idx *TFIDFIndex) MostSimilar(_ context.Context, title string, topN int) ([]*core.Item, bool) {
	if len(idx.movies) == 0 || topN <= 0 {
		return nil, false
	}
	seed, ok := idx.byTitle[strings.ToLower(strings.TrimSpace(title))]
	if !ok {
		return nil, false
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, 0, len(idx.movies)-1)
	seedVec := idx.vectors[seed]
	for i := range idx.movies {
		if i == seed || idx.movies[i] == nil {
			continue
		}
		scores = append(scores, scored{idx: i, score: dot(seedVec, idx.vectors[i])})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})
	if len(scores) > topN {
		scores = scores[:topN]
	}

	out := make([]*core.Item, 0, len(scores))
	for _, s := range scores {
		it := core.NewItem(idx.movies[s.idx])
		it.Score = s.score
		it.PutLabel("similar_to", utils.Label{Value: idx.movies[seed].Title, Source: "index"})
		out = append(out, it)
	}
	return out, true
}

// tokenize 小写切词并去停用词；单字符 token 一并丢弃。
func tokenize(text string, stop map[string]struct{}) []string {
	parts := tokenPattern.Split(strings.ToLower(text), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) < 2 {
			continue
		}
		if _, skip := stop[p]; skip {
			continue
		}
		out = append(out, p)
	}
	return out
}

// dot 计算两个稀疏向量的点积；遍历较短一侧。
func dot(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			sum += wa * wb
		}
	}
	return sum
}
