package utils

import (
	"fmt"
	"net/url"
)

func UrlQuery(s string) string { return url.QueryEscape(s) }

func Str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
