package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"checkin/internal/domain/auth"
)

func TestRequirePermission(t *testing.T) {
	guarded := RequirePermission(auth.PermPerformanceWrite, auth.StaticPermissions{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name string
		user *auth.UserContext
		want int
	}{
		{name: "anonymous", want: http.StatusUnauthorized},
		{name: "employee", user: &auth.UserContext{UserID: "u1", RoleName: auth.RoleEmployee}, want: http.StatusForbidden},
		{name: "manager", user: &auth.UserContext{UserID: "u2", RoleName: auth.RoleManager}, want: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/checkins", nil)
			if tc.user != nil {
				req = req.WithContext(WithUser(req.Context(), *tc.user))
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
