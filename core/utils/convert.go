package utils

import (
	"fmt"
	"strconv"
)

func ToString(v any) string {
	return fmt.Sprintf("%v", v)
}

func ToNumberWithDefault(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
