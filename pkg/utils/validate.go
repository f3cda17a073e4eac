package utils

import (
	"fmt"
	"net/url"
	"regexp"
)

var linkIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{9}$`)

// ValidateLinkID 校验短链标识符是否合法（9 位 URL-safe base64 字符）
func ValidateLinkID(linkID string) error {
	if linkID == "" {
		return fmt.Errorf("error.link_id_required")
	}

	if !linkIDPattern.MatchString(linkID) {
		return fmt.Errorf("error.link_id_invalid")
	}

	return nil
}

// ValidateTargetURL 校验目标 URL 的合法性
func ValidateTargetURL(targetURL string) error {
	// 1. 检查目标 URL 是否为空
	if targetURL == "" {
		return fmt.Errorf("error.target_url_required")
	}

	// 2. URL 格式校验
	if _, err := url.ParseRequestURI(targetURL); err != nil {
		return fmt.Errorf("error.target_url_invalid")
	}

	// 3. URL 长度限制
	if len(targetURL) > 2048 {
		return fmt.Errorf("error.target_url_max_length")
	}
	return nil
}
