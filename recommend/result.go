package recommend

// Policy 标识一次推荐使用的策略。
type Policy string

const (
	PolicyNone   Policy = "none"   // 用户没有已拥有物品
	PolicySingle Policy = "single" // 单种子（已拥有 < 阈值）
	PolicyGroups Policy = "groups" // 多种子
)

// Recommendation 是一条推荐结果。
type Recommendation struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`

	// Seed 是产生该推荐的种子物品名称
	Seed string `json:"seed"`
}

// Group 是多种子策略下单个种子贡献的推荐。
type Group struct {
	Seed  string           `json:"seed"`
	Items []Recommendation `json:"items"`
}

// Result 是一次推荐的完整结果。
type Result struct {
	Policy Policy `json:"policy"`

	// SeedNames 按优先级排列的种子名称（跳过的种子不在其中）
	SeedNames []string `json:"seed_names"`

	// Items 扁平化的推荐列表：多种子策略下按种子顺序拼接
	Items []Recommendation `json:"items"`

	// Groups 仅多种子策略下按种子分组的推荐
	Groups []Group `json:"groups,omitempty"`

	// Skipped 是因不在目录中而被跳过的种子物品 ID
	Skipped []int64 `json:"skipped,omitempty"`
}

// Names 返回推荐物品的名称序列。
func (r *Result) Names() []string {
	out := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, it.Name)
	}
	return out
}

// IDs 返回推荐物品的 ID 序列。
func (r *Result) IDs() []int64 {
	out := make([]int64, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, it.ID)
	}
	return out
}

// Seed 返回第一个种子名称，单种子策略下即唯一的种子。
func (r *Result) Seed() string {
	if len(r.SeedNames) == 0 {
		return ""
	}
	return r.SeedNames[0]
}
