package utils

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword bcrypt 哈希；超过 72 字节的密码 bcrypt 会报错
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

// NormalizeEmail 去空格 + 小写，唯一性按此比较
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
