package permissions_test

import (
	"slices"
	"testing"

	"hotel/permissions"
)

func TestGet_LoadsEmbeddedEndpoints(t *testing.T) {
	data := permissions.Get()
	if data == nil {
		t.Fatal("expected embedded permissions to decode")
	}

	if len(data.Endpoints) == 0 {
		t.Fatal("expected at least one endpoint")
	}
}

func TestFindPermissions(t *testing.T) {
	data := permissions.Get()

	tests := []struct {
		name     string
		path     string
		method   string
		skip     bool
		allowed  string
		rejected string
	}{
		{name: "login is public", path: "/v1/auth/login", method: "POST", skip: true},
		{name: "staff can check in", path: "/v1/bookings/{id}/checkin", method: "PATCH", allowed: "staff"},
		{name: "customer delete is admin only", path: "/v1/customers/{id}", method: "DELETE", allowed: "admin", rejected: "manager"},
		{name: "user management is admin only", path: "/v1/users/", method: "GET", allowed: "admin", rejected: "staff"},
		{name: "room creation excludes staff", path: "/v1/rooms/", method: "POST", allowed: "manager", rejected: "staff"},
		{name: "staff can edit own profile", path: "/v1/auth/profile", method: "PUT", allowed: "staff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission := data.FindPermissions(tt.path, tt.method)

			if permission.Skip != tt.skip {
				t.Errorf("expected skip %v, got %v", tt.skip, permission.Skip)
			}

			if tt.allowed != "" && !slices.Contains(permission.Permissions, tt.allowed) {
				t.Errorf("expected %s to be allowed, got %v", tt.allowed, permission.Permissions)
			}

			if tt.rejected != "" && slices.Contains(permission.Permissions, tt.rejected) {
				t.Errorf("expected %s to be rejected, got %v", tt.rejected, permission.Permissions)
			}
		})
	}

	if unknown := data.FindPermissions("/v1/unknown", "GET"); unknown.Path != "" {
		t.Errorf("expected empty permission for unknown route, got %+v", unknown)
	}
}

func TestLoad_RejectsDuplicates(t *testing.T) {
	_, err := permissions.Load([]byte(`{"endpoints":[
		{"path":"/v1/rooms","method":"GET"},
		{"path":"/v1/rooms/","method":"get"}
	]}`))
	if err == nil {
		t.Error("expected duplicate routes to be rejected")
	}

	if _, err := permissions.Load([]byte(`{`)); err == nil {
		t.Error("expected malformed json to fail")
	}
}

func TestPermission_Allows(t *testing.T) {
	data, err := permissions.Load([]byte(`{"endpoints":[
		{"path":"/v1/rooms","method":"POST","permissions":["admin","manager"]},
		{"path":"/v1/auth/profile","method":"GET"}
	]}`))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	create := data.FindPermissions("/v1/rooms/", "POST")
	if !create.Allows("manager") || create.Allows("staff") {
		t.Errorf("unexpected roles %v", create.Permissions)
	}

	if !data.FindPermissions("/v1/auth/profile", "GET").Allows("staff") {
		t.Error("expected an empty role list to admit any role")
	}
}
