package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/vitrine-next/internal/config"
)

func TestValidatePassword(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireUpper: true, RequireNumber: true}
	cases := []struct {
		name     string
		password string
		wantKey  string
	}{
		{name: "ok", password: "Vitrine2024"},
		{name: "short", password: "Ab1", wantKey: "error.password_min_length"},
		{name: "no upper", password: "vitrine2024", wantKey: "error.password_require_upper"},
		{name: "no number", password: "VitrineLoja", wantKey: "error.password_require_number"},
		{name: "too long", password: "A1" + strings.Repeat("x", maxPasswordBytes), wantKey: "error.password_max_length"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(policy, tc.password)
			if tc.wantKey == "" {
				if err != nil {
					t.Fatalf("want nil got %v", err)
				}
				return
			}
			if !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("want ErrWeakPassword got %v", err)
			}
			var policyErr passwordPolicyError
			if !errors.As(err, &policyErr) || policyErr.Key() != tc.wantKey {
				t.Fatalf("want key %s got %v", tc.wantKey, err)
			}
		})
	}
}

func TestValidatePasswordEmptyPolicy(t *testing.T) {
	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept any password, got %v", err)
	}
}

func TestValidatePasswordRejectsIdentity(t *testing.T) {
	policy := config.PasswordPolicyConfig{MinLength: 8, RequireNumber: true}
	cases := []struct {
		name       string
		password   string
		identities []string
		reject     bool
	}{
		{name: "slug without dashes passes", password: "LojaDaAna2024", identities: []string{"loja-da-ana", "ana@example.com"}, reject: false},
		{name: "contains email local part", password: "Maria.Silva99", identities: []string{"loja-maria", "maria.silva@example.com"}, reject: true},
		{name: "contains slug verbatim", password: "loja-maria-1", identities: []string{"loja-maria"}, reject: true},
		{name: "short identity ignored", password: "ana2024abc", identities: []string{"ana@example.com"}, reject: false},
		{name: "unrelated", password: "segredo123", identities: []string{"loja-maria", "maria@example.com"}, reject: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(policy, tc.password, tc.identities...)
			if !tc.reject {
				if err != nil {
					t.Fatalf("want nil got %v", err)
				}
				return
			}
			var policyErr passwordPolicyError
			if !errors.As(err, &policyErr) || policyErr.Key() != "error.password_contains_identity" {
				t.Fatalf("want identity rejection got %v", err)
			}
		})
	}
}

func TestRegisterRejectsPasswordWithSlug(t *testing.T) {
	svc := newTestServices(t)
	_, _, err := svc.stores.Register(RegisterStoreInput{
		StoreName: "Loja Maria",
		Slug:      "loja-maria",
		WhatsApp:  "11988887777",
		Email:     "contato@example.com",
		Password:  "loja-maria-1",
	})
	var policyErr passwordPolicyError
	if !errors.Is(err, ErrWeakPassword) || !errors.As(err, &policyErr) || policyErr.Key() != "error.password_contains_identity" {
		t.Fatalf("want identity rejection got %v", err)
	}
}
