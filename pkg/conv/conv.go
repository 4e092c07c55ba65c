// Package conv 提供类型转换、配置读取等工具，用于简化各模块中的重复逻辑。
package conv

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
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
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。
// 支持 int、int64、int32、float64、float32。
func ToInt(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case float64:
		return int(val), true
	case float32:
		return int(val), true
	default:
		return 0, false
	}
}

// ConfigGet 从配置 map 读取字符串，缺失或类型不符时返回默认值。
func ConfigGet(cfg map[string]interface{}, key, def string) string {
	if v, ok := cfg[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// ConfigGetFloat 从配置 map 读取数值，缺失或类型不符时返回默认值。
func ConfigGetFloat(cfg map[string]interface{}, key string, def float64) float64 {
	if v, ok := cfg[key]; ok {
		if f, ok := ToFloat64(v); ok {
			return f
		}
	}
	return def
}

// ConfigGetInt 从配置 map 读取整数，缺失或类型不符时返回默认值。
func ConfigGetInt(cfg map[string]interface{}, key string, def int) int {
	if v, ok := cfg[key]; ok {
		if n, ok := ToInt(v); ok {
			return n
		}
	}
	return def
}

// ConfigGetBool 从配置 map 读取布尔值，缺失或类型不符时返回默认值。
func ConfigGetBool(cfg map[string]interface{}, key string, def bool) bool {
	if v, ok := cfg[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}
