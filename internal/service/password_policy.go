package service

import (
	"strings"
	"unicode"

	"github.com/vitrine-next/internal/config"
)

// bcrypt 仅取前 72 字节
const maxPasswordBytes = 72

// 短于该长度的标识（如 "ab"）不参与包含检查
const minIdentityLength = 4

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string        { return e.key }
func (e passwordPolicyError) Is(target error) bool { return target == ErrWeakPassword }
func (e passwordPolicyError) Key() string          { return e.key }
func (e passwordPolicyError) Args() []interface{}  { return e.args }

// passwordTraits 密码字符构成
type passwordTraits struct {
	runes               int
	upper, lower, digit bool
}

func scanPassword(password string) passwordTraits {
	var traits passwordTraits
	for _, r := range password {
		traits.runes++
		switch {
		case unicode.IsUpper(r):
			traits.upper = true
		case unicode.IsLower(r):
			traits.lower = true
		case unicode.IsDigit(r):
			traits.digit = true
		}
	}
	return traits
}

// passwordCheck 单条策略，按顺序执行，命中第一条即返回
type passwordCheck struct {
	enabled bool
	failed  func(passwordTraits) bool
	err     passwordPolicyError
}

func policyChecks(policy config.PasswordPolicyConfig) []passwordCheck {
	return []passwordCheck{
		{
			enabled: policy.MinLength > 0,
			failed:  func(t passwordTraits) bool { return t.runes < policy.MinLength },
			err:     passwordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}},
		},
		{
			enabled: policy.RequireUpper,
			failed:  func(t passwordTraits) bool { return !t.upper },
			err:     passwordPolicyError{key: "error.password_require_upper"},
		},
		{
			enabled: policy.RequireLower,
			failed:  func(t passwordTraits) bool { return !t.lower },
			err:     passwordPolicyError{key: "error.password_require_lower"},
		},
		{
			enabled: policy.RequireNumber,
			failed:  func(t passwordTraits) bool { return !t.digit },
			err:     passwordPolicyError{key: "error.password_require_number"},
		},
	}
}

// validatePassword 校验密码策略；identities 为店铺 slug、邮箱等，密码不得包含它们
func validatePassword(policy config.PasswordPolicyConfig, password string, identities ...string) error {
	if len(password) > maxPasswordBytes {
		return passwordPolicyError{key: "error.password_max_length", args: []interface{}{maxPasswordBytes}}
	}
	traits := scanPassword(password)
	for _, check := range policyChecks(policy) {
		if check.enabled && check.failed(traits) {
			return check.err
		}
	}
	if containsIdentity(password, identities) {
		return passwordPolicyError{key: "error.password_contains_identity"}
	}
	return nil
}

// containsIdentity 邮箱只取 @ 前部分，忽略大小写
func containsIdentity(password string, identities []string) bool {
	lowered := strings.ToLower(password)
	for _, identity := range identities {
		identity = strings.ToLower(strings.TrimSpace(identity))
		if at := strings.IndexByte(identity, '@'); at >= 0 {
			identity = identity[:at]
		}
		if len([]rune(identity)) < minIdentityLength {
			continue
		}
		if strings.Contains(lowered, identity) {
			return true
		}
	}
	return false
}
