package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// DereferenceSeed は、int64のポインタを安全にデリファレンスします。
// ポインタがnilの場合は0を返します。
func DereferenceSeed(seed *int64) int64 {
	if seed == nil {
		return 0
	}
	return *seed
}

// SeedToInt32Ptr は *int64 のシードを Gemini SDK 用の *int32 に変換します。nil はそのまま nil です。
func SeedToInt32Ptr(seed *int64) *int32 {
	if seed == nil {
		return nil
	}
	// int32 の範囲を超える値は上位ビットが切り捨てられますが、シード値としては問題ありません。
	val := int32(DereferenceSeed(seed))
	return &val
}

// ParseSeed はフォーム入力のシード値を解釈します。空文字は「指定なし」として nil を返すのだ。
func ParseSeed(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	seed, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q", s)
	}
	return &seed, nil
}
