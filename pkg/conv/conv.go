// Package conv 把 YAML/JSON/koanf 解析得到的 any 值转换为具体类型，供配置驱动的 Node 构建器使用。
package conv

import (
	"strconv"
	"strings"
)

// ToFloat64 将数字类型的 any 转为 float64。
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	default:
		return 0, false
	}
}

// ToInt64 将 any 转为 int64。
// 支持整数、整数值的浮点数（YAML/JSON 的数字常被解析为 float64）以及十进制字符串。
func ToInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case int32:
		return int64(val), true
	case float64:
		if val != float64(int64(val)) {
			return 0, false
		}
		return int64(val), true
	case float32:
		if val != float32(int64(val)) {
			return 0, false
		}
		return int64(val), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// ConvertSlice 将 []T 按 convert 转为 []U，convert 返回 false 的元素被跳过。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// SliceAnyToString 将 []any、[]string 或逗号分隔的字符串转为 []string。
// 数字元素按整数格式化，空白元素被跳过。
func SliceAnyToString(v any) []string {
	switch raw := v.(type) {
	case nil:
		return nil
	case []string:
		return ConvertSlice(raw, nonEmpty)
	case string:
		return ConvertSlice(strings.Split(raw, ","), nonEmpty)
	case []any:
		return ConvertSlice(raw, func(e any) (string, bool) {
			if s, ok := e.(string); ok {
				return nonEmpty(s)
			}
			if n, ok := ToInt64(e); ok {
				return strconv.FormatInt(n, 10), true
			}
			return "", false
		})
	default:
		return nil
	}
}

// SliceAnyToInt64 将 []any 或 []int64 转为 []int64，无法转换的元素被跳过。
func SliceAnyToInt64(v any) []int64 {
	switch raw := v.(type) {
	case []int64:
		return raw
	case []any:
		return ConvertSlice(raw, ToInt64)
	default:
		return nil
	}
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ConfigGet 从 map[string]any 按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt64 从 config 取 int64，兼容 int / float64 / 字符串。
func ConfigGetInt64(m map[string]any, key string, defaultVal int64) int64 {
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	if n, ok := ToInt64(v); ok {
		return n
	}
	return defaultVal
}
