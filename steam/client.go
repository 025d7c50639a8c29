// Package steam 通过 Steam Web API 获取用户的已拥有游戏，实现 core.OwnedItemsProvider。
//
// 所有请求经过限流（x/time/rate）与熔断（gobreaker），超时由 http.Client 控制。
package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/rushteam/playful/core"
	"github.com/rushteam/playful/metrics"
	"github.com/rushteam/playful/pkg/logging"
)

const (
	// DefaultBaseURL 是 Steam Web API 地址
	DefaultBaseURL = "http://api.steampowered.com"

	pathResolveVanityURL = "/ISteamUser/ResolveVanityURL/v0001/"
	pathGetOwnedGames    = "/IPlayerService/GetOwnedGames/v0001/"

	breakerName = "steam-api"
)

// Config 是 Steam 客户端配置。
type Config struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// RPS 每秒请求数上限，<= 0 表示不限流
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`

	// CacheTTL 已拥有物品缓存时长，0 表示不缓存
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  5 * time.Second,
		RPS:      10,
		Burst:    20,
		CacheTTL: 10 * time.Minute,
	}
}

// Client 是 Steam Web API 客户端，可并发使用。
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// NewClient 创建客户端。httpClient 为 nil 时使用 cfg.Timeout 创建。
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		cb:      gobreaker.NewCircuitBreaker[[]byte](breakerSettings()),
	}
}

func breakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		// 调用方取消不计为上游失败
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// get 发起一次 GET 请求并返回响应体，非 200 视为失败。
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q.Set("key", c.cfg.APIKey)
	u := c.cfg.BaseURL + path + "?" + q.Encode()

	body, err := c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("steam: %s returned HTTP %d", path, resp.StatusCode)
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, core.NewDomainError(core.ModuleProvider, core.ErrorCodeUnavailable, "steam: circuit open")
		}
		return nil, err
	}
	return body, nil
}

type vanityResponse struct {
	Response struct {
		SteamID string `json:"steamid"`
		Success int    `json:"success"`
		Message string `json:"message"`
	} `json:"response"`
}

// ResolveUserID 把自定义 URL 名解析为 64 位 Steam ID。
// 请求失败或没有匹配时，原样返回 input（input 可能本身就是 Steam ID）。
func (c *Client) ResolveUserID(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", core.NewDomainError(core.ModuleProvider, core.ErrorCodeInvalidInput, "steam: empty user id")
	}

	start := time.Now()
	body, err := c.get(ctx, pathResolveVanityURL, url.Values{"vanityurl": {input}})
	metrics.ObserveProvider("resolve_vanity_url", start, err)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("input", input).Msg("vanity url lookup failed, using input as user id")
		return input, nil
	}

	var resp vanityResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Response.SteamID == "" {
		return input, nil
	}
	return resp.Response.SteamID, nil
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []ownedGame `json:"games"`
	} `json:"response"`
}

type ownedGame struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int64  `json:"playtime_forever"`
}

// OwnedItems 返回用户的已拥有游戏与累计游戏时长（分钟）。
// 私密资料的用户返回空列表。
func (c *Client) OwnedItems(ctx context.Context, userID string) ([]core.UsageRecord, error) {
	if userID == "" {
		return nil, core.NewDomainError(core.ModuleProvider, core.ErrorCodeInvalidInput, "steam: empty user id")
	}

	start := time.Now()
	body, err := c.get(ctx, pathGetOwnedGames, url.Values{
		"steamid":                   {userID},
		"format":                    {"json"},
		"include_appinfo":           {"true"},
		"include_played_free_games": {"true"},
	})
	if err != nil {
		metrics.ObserveProvider("owned_games", start, err)
		if core.IsUnavailable(err) {
			return nil, err
		}
		return nil, core.NewDomainError(core.ModuleProvider, core.ErrorCodeUnavailable, err.Error())
	}

	var resp ownedGamesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		err = core.NewDomainError(core.ModuleProvider, core.ErrorCodeInvalidInput, "steam: decode owned games: "+err.Error())
		metrics.ObserveProvider("owned_games", start, err)
		return nil, err
	}
	metrics.ObserveProvider("owned_games", start, nil)

	out := make([]core.UsageRecord, 0, len(resp.Response.Games))
	for _, g := range resp.Response.Games {
		out = append(out, core.UsageRecord{ItemID: g.AppID, Amount: g.PlaytimeForever})
	}
	return out, nil
}

var (
	_ core.OwnedItemsProvider = (*Client)(nil)
	_ core.UserResolver       = (*Client)(nil)
)
