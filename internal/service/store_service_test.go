package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vitrine-next/internal/constants"
	"github.com/vitrine-next/internal/models"
	"github.com/vitrine-next/internal/repository"

	"github.com/shopspring/decimal"
)

func TestNormalizeWhatsApp(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		err   error
	}{
		{name: "local mobile", input: "(11) 99999-8888", want: "5511999998888"},
		{name: "local landline", input: "11 3333-4444", want: "551133334444"},
		{name: "with ddi", input: "+55 21 98888-7777", want: "5521988887777"},
		{name: "too short", input: "9999-8888", err: ErrInvalidWhatsApp},
		{name: "too long", input: "55 11 99999-88887777", err: ErrInvalidWhatsApp},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeWhatsApp(tc.input, "55")
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("want error %v got %v", tc.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %s got %s", tc.want, got)
			}
		})
	}
}

func TestNormalizeSlug(t *testing.T) {
	if got, err := NormalizeSlug("  Loja-Da-Ana "); err != nil || got != "loja-da-ana" {
		t.Fatalf("unexpected slug result: %q %v", got, err)
	}
	for _, raw := range []string{"ab", "loja da ana", "loja_ana", ""} {
		if _, err := NormalizeSlug(raw); !errors.Is(err, ErrInvalidSlug) {
			t.Fatalf("slug %q should be rejected, got %v", raw, err)
		}
	}
}

func TestStoreRegisterCreatesOwner(t *testing.T) {
	svc := newTestServices(t)

	store, merchant, err := svc.stores.Register(RegisterStoreInput{
		StoreName: "Loja da Ana",
		Slug:      "Loja-Da-Ana",
		WhatsApp:  "(11) 99999-8888",
		Email:     " Ana@Example.com ",
		Password:  "segredo123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if store.Slug != "loja-da-ana" || store.WhatsApp != "5511999998888" {
		t.Fatalf("unexpected store normalization: %+v", store)
	}
	if store.Status != constants.StoreStatusActive {
		t.Fatalf("new store should be active, got %s", store.Status)
	}
	if merchant.StoreID != store.ID || merchant.Email != "ana@example.com" {
		t.Fatalf("unexpected merchant: %+v", merchant)
	}
	if merchant.PasswordHash == "segredo123" || VerifyPassword(merchant.PasswordHash, "segredo123") != nil {
		t.Fatalf("password should be stored as bcrypt hash")
	}

	_, _, err = svc.stores.Register(RegisterStoreInput{
		StoreName: "Outra",
		Slug:      "loja-da-ana",
		WhatsApp:  "11999998888",
		Email:     "outra@example.com",
		Password:  "segredo123",
	})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("want ErrSlugExists got %v", err)
	}
	_, _, err = svc.stores.Register(RegisterStoreInput{
		StoreName: "Outra",
		Slug:      "outra-loja",
		WhatsApp:  "11999998888",
		Email:     "ANA@example.com",
		Password:  "segredo123",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("want ErrEmailExists got %v", err)
	}
	_, _, err = svc.stores.Register(RegisterStoreInput{
		StoreName: "Outra",
		Slug:      "outra-loja",
		WhatsApp:  "11999998888",
		Email:     "outra@example.com",
		Password:  "curta",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("want ErrWeakPassword got %v", err)
	}
}

func TestStoreSetStatusHidesStorefront(t *testing.T) {
	svc := newTestServices(t)
	store := svc.createStore(t, "loja-status")
	actor := AuditActor{AdminID: 1, Username: "admin", RequestID: "req-1"}

	if _, err := svc.stores.GetPublicBySlug("loja-status"); err != nil {
		t.Fatalf("active store should be public: %v", err)
	}
	updated, err := svc.stores.SetStatus(context.Background(), actor, store.ID, constants.StoreStatusSuspended, "chargeback")
	if err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	if updated.SuspendedReason != "chargeback" {
		t.Fatalf("reason not stored: %+v", updated)
	}
	if _, err := svc.stores.GetPublicBySlug("loja-status"); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("suspended store should be hidden, got %v", err)
	}
	if _, err := svc.stores.SetStatus(context.Background(), actor, store.ID, constants.StoreStatusSuspended, ""); !errors.Is(err, ErrStoreStatusNoop) {
		t.Fatalf("want ErrStoreStatusNoop got %v", err)
	}
	if _, err := svc.stores.SetStatus(context.Background(), actor, store.ID, "closed", ""); !errors.Is(err, ErrInvalidStoreState) {
		t.Fatalf("want ErrInvalidStoreState got %v", err)
	}

	logs, total, err := svc.stores.ListAuditLogs(repository.AdminAuditLogListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list audit logs failed: %v", err)
	}
	if total != 1 || logs[0].Action != "store_status_suspended" || logs[0].TargetID != store.ID {
		t.Fatalf("unexpected audit logs: total=%d logs=%+v", total, logs)
	}

	if _, err := svc.stores.SetStatus(context.Background(), actor, store.ID, constants.StoreStatusActive, "ignored"); err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}
	reloaded, err := svc.stores.GetPublicBySlug("loja-status")
	if err != nil {
		t.Fatalf("reactivated store should be public: %v", err)
	}
	if reloaded.SuspendedReason != "" {
		t.Fatalf("reason should be cleared on activation, got %q", reloaded.SuspendedReason)
	}
}

func TestStoreFreeShippingThreshold(t *testing.T) {
	svc := newTestServices(t)
	store := &models.Store{}
	if got := svc.stores.FreeShippingThreshold(store); !got.Equal(decimal.NewFromInt(199)) {
		t.Fatalf("default threshold want 199 got %s", got)
	}
	store.FreeShippingThreshold = models.MustMoney("150.00")
	if got := svc.stores.FreeShippingThreshold(store); !got.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("store override want 150 got %s", got)
	}
}

func TestStoreUpdateSettings(t *testing.T) {
	svc := newTestServices(t)
	store := svc.createStore(t, "loja-config")

	updated, err := svc.stores.UpdateSettings(store.ID, UpdateStoreSettingsInput{
		Name:                  "Loja Config",
		WhatsApp:              "21 98888-7777",
		Description:           "Moda praia",
		ShippingFee:           decimal.RequireFromString("12.50"),
		FreeShippingThreshold: decimal.RequireFromString("250"),
	})
	if err != nil {
		t.Fatalf("update settings failed: %v", err)
	}
	if updated.WhatsApp != "5521988887777" || updated.ShippingFee.String() != "12.50" {
		t.Fatalf("unexpected settings: %+v", updated)
	}
	if _, err := svc.stores.UpdateSettings(store.ID, UpdateStoreSettingsInput{
		Name:        "Loja Config",
		WhatsApp:    "21 98888-7777",
		ShippingFee: decimal.NewFromInt(-1),
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative fee should be rejected, got %v", err)
	}
}
