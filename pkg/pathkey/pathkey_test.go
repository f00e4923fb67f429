package pathkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/doccov/pkg/pathkey"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"prefix and path", []string{"/user", "/{username}"}, "/user/{username}"},
		{"doubled separators", []string{"/api/", "/v1/", "/items"}, "/api/v1/items"},
		{"empty declared path", []string{"/users", ""}, "/users"},
		{"all empty", []string{"", ""}, "/"},
		{"root decl", []string{"", "/"}, "/"},
		{"relative decl", []string{"/api", "health"}, "/api/health"},
		{"trailing slash", []string{"/api", "/items/"}, "/api/items"},
		{"converter", []string{"/files", "/{file_path:path}"}, "/files/{file_path}"},
		{"colon param", []string{"/users", "/:id"}, "/users/{id}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pathkey.Join(tt.parts...)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "//")
			assert.Equal(t, byte('/'), got[0])
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/users/{id}", "/users/{}"},
		{"/users/{user_id}", "/users/{}"},
		{"/users/:id", "/users/{}"},
		{"/users/{id:int}", "/users/{}"},
		{"/users/", "/users"},
		{"/", "/"},
		{"", "/"},
		{"//api//v1/items", "/api/v1/items"},
		{"/items?limit=10", "/items"},
		{"/files/{name}.json", "/files/{}.json"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pathkey.Canonical(tt.in))
		})
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	inputs := []string{
		"/users/{id}", "/users/:id/", "//a//b/", "/x/{y:path}/z", "/", "", "/{}",
		"/items/{item_id}/reviews/{review_id}",
	}
	for _, in := range inputs {
		once := pathkey.Canonical(in)
		assert.Equal(t, once, pathkey.Canonical(once), "input %q", in)
	}
}

func TestPlaceholderSpellingsAgree(t *testing.T) {
	assert.True(t, pathkey.Equal("/users/{id}", "/users/{user_id}"))
	assert.True(t, pathkey.Equal("/users/{id}", "/users/:id"))
	assert.False(t, pathkey.Equal("/users/{id}", "/users"))
	assert.False(t, pathkey.Equal("/users/{id}", "/users/me"))
}

func TestCanonicalMethod(t *testing.T) {
	assert.Equal(t, "get", pathkey.CanonicalMethod("GET"))
	assert.Equal(t, "post", pathkey.CanonicalMethod(" Post "))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"item_id", "review_id"}, pathkey.Placeholders("/items/{item_id}/reviews/{review_id:int}"))
	assert.Equal(t, []string{"id"}, pathkey.Placeholders("/users/:id"))
	assert.Nil(t, pathkey.Placeholders("/health"))
}

func TestLooksLikeFilesystem(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/app", true},
		{"/app/main.py", true},
		{"/home/user/project", true},
		{"/usr/lib/python3/site-packages/fastapi", true},
		{"/dist/pkg-1.0.0.tar.gz", true},
		{"/docs/index.md", true},
		{"/etc", true},
		{"/applications", false},
		{"/users/{id}", false},
		{"/items/report.json", false},
		{"/api/v1/users", false},
		{"/", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, pathkey.LooksLikeFilesystem(tt.in))
		})
	}
}
