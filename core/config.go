package core

// RecommendConfig 是推荐组合相关的配置接口，用于提供默认值。
type RecommendConfig interface {
	// DefaultTopK 返回单种子策略下的推荐数量
	DefaultTopK() int

	// DefaultGroups 返回多种子策略下的种子数量
	DefaultGroups() int

	// DefaultPerGroup 返回每个种子贡献的推荐数量
	DefaultPerGroup() int

	// DefaultGroupThreshold 返回启用多种子策略所需的最少已拥有物品数
	DefaultGroupThreshold() int

	// DefaultDenylist 返回默认的名称黑名单（展示素材已知有问题的物品）
	DefaultDenylist() []string
}

// DefaultRecommendConfig 是默认的推荐配置实现。
type DefaultRecommendConfig struct{}

func (c *DefaultRecommendConfig) DefaultTopK() int {
	return 12
}

func (c *DefaultRecommendConfig) DefaultGroups() int {
	return 3
}

func (c *DefaultRecommendConfig) DefaultPerGroup() int {
	return 4
}

func (c *DefaultRecommendConfig) DefaultGroupThreshold() int {
	return 3
}

func (c *DefaultRecommendConfig) DefaultDenylist() []string {
	return []string{"Fallout: New Vegas", "Dawn of Discovery"}
}
