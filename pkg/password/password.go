package password

import (
	"golang.org/x/crypto/bcrypt"
)

// Hash 生成加盐的密码哈希
func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify 使用哈希方案自带的校验函数比较密码，不做重新哈希后的直接相等比较
func Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
