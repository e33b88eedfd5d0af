package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func reply(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func header(key, value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(key, value)
		c.Next()
	}
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_Prefix(t *testing.T) {
	assert.Equal(t, "/api/v1", NewRouter(gin.New()).Prefix())
	assert.Equal(t, "/api/v2", NewRouter(gin.New(), WithAPIVersion("v2")).Prefix())
}

func TestRouter_MountsGroupsUnderPrefix(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))
	r.Register(
		NewDomainGroup("accounts", "/accounts").GET("", reply("accounts")),
		NewDomainGroup("projects", "/projects").GET("", reply("projects")),
	)
	r.Setup()

	w := serve(engine, http.MethodGet, "/api/v2/accounts")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "accounts", w.Body.String())

	assert.Equal(t, "projects", serve(engine, http.MethodGet, "/api/v2/projects").Body.String())
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/accounts").Code)
}

func TestRouter_UseAppliesOnlyUnderPrefix(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(header("X-Api", "v1"), nil)
	r.Register(NewDomainGroup("system", "/system").GET("/ping", reply("pong")))
	r.Setup()
	engine.GET("/health", reply("ok"))

	assert.Equal(t, "v1", serve(engine, http.MethodGet, "/api/v1/system/ping").Header().Get("X-Api"))
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-Api"))
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("tasks", "/tasks").
		GET("/:id", reply("get")).
		POST("", reply("post")).
		PUT("/:id", reply("put")).
		PATCH("/:id/status", reply("patch")).
		DELETE("/:id", reply("delete")).
		Handle(http.MethodPost, "/:id/approve", reply("approve"))
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/tasks/42", "get"},
		{http.MethodPost, "/api/v1/tasks", "post"},
		{http.MethodPut, "/api/v1/tasks/42", "put"},
		{http.MethodPatch, "/api/v1/tasks/42/status", "patch"},
		{http.MethodDelete, "/api/v1/tasks/42", "delete"},
		{http.MethodPost, "/api/v1/tasks/42/approve", "approve"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	ledger := NewDomainGroup("ledger", "").Use(header("X-Guard", "auth"), nil)
	ledger.Group("accounts", "/accounts").GET("", reply("accounts"))
	ledger.Group("tags", "/tags").Use(header("X-Sub", "tags")).GET("", reply("tags"))
	ledger.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/accounts")
	assert.Equal(t, "accounts", w.Body.String())
	assert.Equal(t, "auth", w.Header().Get("X-Guard"), "parent middleware reaches subgroups")
	assert.Empty(t, w.Header().Get("X-Sub"))

	w = serve(engine, http.MethodGet, "/api/v1/tags")
	assert.Equal(t, "auth", w.Header().Get("X-Guard"))
	assert.Equal(t, "tags", w.Header().Get("X-Sub"))
}

func TestDomainGroup_Accessors(t *testing.T) {
	g := NewDomainGroup("ledger", "/ledger")
	assert.Equal(t, "ledger", g.Name())
	assert.Equal(t, "/ledger", g.Prefix())
}
