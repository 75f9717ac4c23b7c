package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorconnect/backend/internal/config"
	"github.com/mentorconnect/backend/internal/database/dbtest"
	"github.com/mentorconnect/backend/internal/models"
	"github.com/mentorconnect/backend/internal/principal"
)

// as installs p as the request principal, standing in for JWTProtected.
func as(p *principal.Principal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p != nil {
			principal.Set(c, *p)
		}
		return c.Next()
	}
}

func ok(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

func status(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestRoleRequired(t *testing.T) {
	cases := []struct {
		name string
		p    *principal.Principal
		want int
	}{
		{"no principal", nil, http.StatusUnauthorized},
		{"wrong role", &principal.Principal{Role: models.RoleUser}, http.StatusForbidden},
		{"matching role", &principal.Principal{Role: models.RoleMentor}, http.StatusOK},
		{"admin passes", &principal.Principal{Role: models.RoleAdmin}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", as(tc.p), RoleRequired(models.RoleMentor), ok)
			assert.Equal(t, tc.want, status(t, app, httptest.NewRequest(http.MethodGet, "/", nil)))
		})
	}
}

func TestAdminRequired(t *testing.T) {
	ctx := context.Background()
	store, _ := dbtest.Store(t)
	promoted := &models.User{FirstName: "Pat", LastName: "Admin", Email: "pat@example.com", Role: models.RoleAdmin}
	require.NoError(t, store.Users().Create(ctx, promoted))

	cfg := &config.Config{AdminEmails: " Root@Example.com ,ops@example.com", AdminToken: "tok"}

	cases := []struct {
		name  string
		p     *principal.Principal
		token string
		want  int
	}{
		{"admin token", nil, "tok", http.StatusOK},
		{"wrong token and no principal", nil, "nope", http.StatusUnauthorized},
		{"listed email", &principal.Principal{UserID: uuid.New(), Email: "root@example.com", Role: models.RoleUser}, "", http.StatusOK},
		// Stale role claim; the stored user is an admin.
		{"stored admin", &principal.Principal{UserID: promoted.ID, Email: promoted.Email, Role: models.RoleUser}, "", http.StatusOK},
		{"plain user", &principal.Principal{UserID: uuid.New(), Email: "sam@example.com", Role: models.RoleUser}, "", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", as(tc.p), AdminRequired(store, cfg), RoleRequired(models.RoleAdmin), ok)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.token != "" {
				req.Header.Set("X-Admin-Token", tc.token)
			}
			assert.Equal(t, tc.want, status(t, app, req))
		})
	}
}

func TestHasAdminToken_DisabledWhenUnset(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		if HasAdminToken(&config.Config{})(c) {
			return c.SendStatus(fiber.StatusOK)
		}
		return c.SendStatus(fiber.StatusForbidden)
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Admin-Token", "")
	assert.Equal(t, http.StatusForbidden, status(t, app, req))
}

type fakeSettings struct {
	on    atomic.Bool
	calls atomic.Int32
}

func (f *fakeSettings) Current(context.Context) (config.PlatformSettings, error) {
	f.calls.Add(1)
	s := config.DefaultSettings()
	s.General.MaintenanceMode = f.on.Load()
	return s, nil
}

func TestMaintenance(t *testing.T) {
	src := &fakeSettings{}
	src.on.Store(true)

	app := fiber.New()
	app.Use(Maintenance(src, time.Hour))
	app.Get("/api/mentors", ok)
	app.Get("/api/health", ok)
	app.Get("/api/admin/settings", ok)

	get := func(path string) int {
		return status(t, app, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, http.StatusServiceUnavailable, get("/api/mentors"))
	assert.Equal(t, http.StatusOK, get("/api/health"))
	assert.Equal(t, http.StatusOK, get("/api/admin/settings"))

	// Cached until the ttl expires.
	src.on.Store(false)
	assert.Equal(t, http.StatusServiceUnavailable, get("/api/mentors"))
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestMaintenance_Off(t *testing.T) {
	app := fiber.New()
	app.Use(Maintenance(&fakeSettings{}, 0))
	app.Get("/api/mentors", ok)
	assert.Equal(t, http.StatusOK, status(t, app, httptest.NewRequest(http.MethodGet, "/api/mentors", nil)))
}
