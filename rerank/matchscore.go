package rerank

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/reelkit/reelkit/core"
	"github.com/reelkit/reelkit/pipeline"
	"github.com/reelkit/reelkit/pkg/utils"
)

// MatchCriteria 是 quiz 请求的匹配条件，MatchScore 与 Explain 两个节点共用。
// Genres / Tags 约定已小写化；年代范围只有两端都给出才参与打分。
type MatchCriteria struct {
	Genres    []string
	Tags      []string
	YearStart int
	YearEnd   int
}

// YearRangeActive 判断年代条件是否生效。
func (c MatchCriteria) YearRangeActive() bool {
	return c.YearStart > 0 && c.YearEnd > 0 && c.YearStart <= c.YearEnd
}

// MatchScore 是 quiz 匹配分节点：对每部电影计算加权相关分并据此重排。
//
// 打分规则：
//   - 每命中一个请求类型 +3（类型串子串匹配）
//   - 每命中一个 tag +1（title/plot/keywords 拼接文本子串匹配）
//   - 年代接近度最高 +2：落在范围内按与范围中点的距离线性衰减，
//     中点得 2，范围边缘得 0
//
// 排序：匹配分降序，同分按评分降序（稳定）。
// 匹配分只写在 Item.Score 上——它是计算产物，不属于电影记录本身。
type MatchScore struct {
	Criteria MatchCriteria
}

func (n *MatchScore) Name() string {
	return "rerank.match_score"
}

func (n *MatchScore) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *MatchScore) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, it := range items {
		if it == nil || it.Movie == nil {
			continue
		}
		it.Score = n.score(it.Movie)
		it.PutLabel("match_scored", utils.Label{Value: "true", Source: "quiz"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return rating(items[i]) > rating(items[j])
	})
	return items, nil
}

func (n *MatchScore) score(m *core.Movie) float64 {
	var score float64
	c := n.Criteria

	movieGenres := strings.ToLower(m.Genres)
	for _, g := range c.Genres {
		if g != "" && strings.Contains(movieGenres, g) {
			score += 3
		}
	}

	if len(c.Tags) > 0 {
		text := strings.ToLower(m.Title + " " + m.Plot + " " + m.Keywords)
		for _, tag := range c.Tags {
			if tag != "" && strings.Contains(text, tag) {
				score++
			}
		}
	}

	if c.YearRangeActive() && m.Year > 0 && m.Year >= c.YearStart && m.Year <= c.YearEnd {
		mid := float64(c.YearStart+c.YearEnd) / 2
		maxDiff := math.Max(math.Abs(float64(c.YearStart)-mid), math.Abs(float64(c.YearEnd)-mid))
		if maxDiff > 0 {
			score += (1 - math.Abs(float64(m.Year)-mid)/maxDiff) * 2
		}
	}

	return math.Round(score*100) / 100
}

// Explain 是解释节点：给头部 TopN 个结果生成可读的推荐理由。
// 未命中任何条件的头部结果给出通用理由；TopN 之外的结果不生成
// （解释串是给人看的，列表深处无人消费）。
type Explain struct {
	Criteria MatchCriteria

	// TopN 生成解释的数量；<= 0 取默认 10
	TopN int
}

func (n *Explain) Name() string {
	return "rerank.explain"
}

func (n *Explain) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *Explain) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	topN := n.TopN
	if topN <= 0 {
		topN = 10
	}
	for i, it := range items {
		if i >= topN {
			break
		}
		if it == nil || it.Movie == nil {
			continue
		}
		it.Explanation = n.explain(it.Movie)
	}
	return items, nil
}

func (n *Explain) explain(m *core.Movie) string {
	c := n.Criteria
	parts := make([]string, 0, 3)

	if len(c.Genres) > 0 && m.Genres != "" {
		movieGenres := strings.ToLower(m.Genres)
		matched := make([]string, 0, 2)
		for _, g := range c.Genres {
			if g != "" && strings.Contains(movieGenres, g) {
				matched = append(matched, g)
				if len(matched) == 2 {
					break
				}
			}
		}
		if len(matched) > 0 {
			parts = append(parts, "Matches your preferred genres: "+strings.Join(matched, ", "))
		}
	}

	if len(c.Tags) > 0 {
		title := strings.ToLower(m.Title)
		matched := make([]string, 0, 2)
		for _, tag := range c.Tags {
			if tag != "" && strings.Contains(title, tag) {
				matched = append(matched, tag)
				if len(matched) == 2 {
					break
				}
			}
		}
		if len(matched) > 0 {
			parts = append(parts, "Matches your tags: "+strings.Join(matched, ", "))
		}
	}

	if c.YearRangeActive() && m.Year >= c.YearStart && m.Year <= c.YearEnd {
		parts = append(parts, fmt.Sprintf("From your preferred era (%d-%d)", c.YearStart, c.YearEnd))
	}

	if len(parts) == 0 {
		return "Recommended based on quiz preferences"
	}
	return strings.Join(parts, " • ")
}
