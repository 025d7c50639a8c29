package server

import (
	"strconv"

	"github.com/rushteam/playful/recommend"
)

const (
	imageURLPrefix = "http://cdn.steamstatic.com/steam/apps/"
	linkURLPrefix  = "http://store.steampowered.com/app/"
)

// ImageURL 返回物品的头图地址。
func ImageURL(id int64) string {
	return imageURLPrefix + strconv.FormatInt(id, 10) + "/header.jpg"
}

// LinkURL 返回物品的商店页面地址。
func LinkURL(id int64) string {
	return linkURLPrefix + strconv.FormatInt(id, 10)
}

// Item 是返回给前端的一条推荐。
type Item struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Seed  string  `json:"seed"`
	Score float64 `json:"score"`
	Image string  `json:"image"`
	Link  string  `json:"link"`
}

// Group 是多种子模式下一个种子的推荐。
type Group struct {
	Seed  string `json:"seed"`
	Items []Item `json:"items"`
}

// Response 是 /recommendations 的响应。
//
// Mode:
//   - none：用户没有已拥有物品（或获取失败），没有推荐
//   - single：单种子，Seeds 只有一个
//   - groups：多种子，Groups 按种子顺序排列
type Response struct {
	Mode            string   `json:"mode"`
	UserID          string   `json:"user_id"`
	Seeds           []string `json:"seeds"`
	Recommendations []Item   `json:"recommendations"`
	Groups          []Group  `json:"groups,omitempty"`
	Skipped         []int64  `json:"skipped,omitempty"`
}

func newResponse(userID string, res *recommend.Result) *Response {
	resp := &Response{
		Mode:            string(res.Policy),
		UserID:          userID,
		Seeds:           res.SeedNames,
		Recommendations: toItems(res.Items),
		Skipped:         res.Skipped,
	}
	if resp.Seeds == nil {
		resp.Seeds = []string{}
	}
	for _, g := range res.Groups {
		resp.Groups = append(resp.Groups, Group{Seed: g.Seed, Items: toItems(g.Items)})
	}
	return resp
}

func toItems(recs []recommend.Recommendation) []Item {
	out := make([]Item, 0, len(recs))
	for _, r := range recs {
		out = append(out, Item{
			ID:    r.ID,
			Name:  r.Name,
			Seed:  r.Seed,
			Score: r.Score,
			Image: ImageURL(r.ID),
			Link:  LinkURL(r.ID),
		})
	}
	return out
}
