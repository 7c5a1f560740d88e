package authz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func TestBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	// 重复初始化不报错
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	if len(roles) != 2 || roles[0] != "role:auditor" || roles[1] != "role:operator" {
		t.Fatalf("unexpected roles: %v", roles)
	}
}

func TestAuditorIsReadOnly(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetAdminRoles(2, []string{RoleAuditor}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(2, "/api/v1/admin/stores", "get")
	if err != nil || !allow {
		t.Fatalf("auditor should read stores, allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceAdmin(2, "/api/v1/admin/stores/7/status", "PATCH")
	if err != nil || allow {
		t.Fatalf("auditor should not change store status, allow=%v err=%v", allow, err)
	}
}

func TestOperatorChangesStoreStatus(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetAdminRoles(3, []string{"operator"}); err != nil {
		t.Fatalf("set admin roles failed: %v", err)
	}

	allow, err := svc.EnforceAdmin(3, "/api/v1/admin/stores/7/status", "PATCH")
	if err != nil || !allow {
		t.Fatalf("operator should change store status, allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceAdmin(3, "/api/v1/admin/audit-logs", "GET")
	if err != nil || !allow {
		t.Fatalf("operator should inherit read access, allow=%v err=%v", allow, err)
	}
	allow, err = svc.EnforceAdmin(3, "/api/v1/admin/admins", "POST")
	if err != nil || allow {
		t.Fatalf("operator should not create admins, allow=%v err=%v", allow, err)
	}
}

func TestSetAdminRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetAdminRoles(4, []string{RoleOperator}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	if err := svc.SetAdminRoles(4, []string{RoleAuditor}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err := svc.GetAdminRoles(4)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:auditor" {
		t.Fatalf("roles want [role:auditor], got=%v", roles)
	}
	allow, err := svc.EnforceAdmin(4, "/admin/stores/7/status", "PATCH")
	if err != nil || allow {
		t.Fatalf("old role permission should be removed, allow=%v err=%v", allow, err)
	}

	if err := svc.SetAdminRoles(4, []string{"ghost"}); !errors.Is(err, ErrRoleUndefined) {
		t.Fatalf("want ErrRoleUndefined got %v", err)
	}
	roles, _ = svc.GetAdminRoles(4)
	if len(roles) != 1 {
		t.Fatalf("failed assignment should keep previous roles, got=%v", roles)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/stores/:id", want: "/admin/stores/:id"},
		{in: "/admin/stores/:id", want: "/admin/stores/:id"},
		{in: "admin/stores", want: "/admin/stores"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}
