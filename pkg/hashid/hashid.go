package hashid

import (
	"crypto/md5"
	"encoding/base64"
)

// LinkIDLength 短链标识符固定长度
const LinkIDLength = 9

// Derive 根据 (originalURL, ownerID) 推导确定性的短链标识符。
// 算法与已有数据兼容：md5(originalURL + ownerID) → URL-safe base64（无填充）→ 取前 9 位。
// 这里的 md5 只用作查找键，不承担安全职责。
func Derive(originalURL, ownerID string) string {
	sum := md5.Sum([]byte(originalURL + ownerID))
	encoded := base64.RawURLEncoding.EncodeToString(sum[:])
	return encoded[:LinkIDLength]
}
