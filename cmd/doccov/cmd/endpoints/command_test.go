package endpoints

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doccov/internal/appcontext"
)

const usersModule = `from fastapi import APIRouter, FastAPI

router = APIRouter(prefix="/users", tags=["users"])


@router.get("/{user_id}", summary="Read a user")
async def read_user(user_id: int):
    return {}


app = FastAPI()
app.include_router(router, prefix="/v1")
`

func TestEndpointsCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte(usersModule), 0o644))

	t.Run("table with details", func(t *testing.T) {
		cmd := NewCommand(&appcontext.Mock{SourceRoot: root})
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--details"})
		require.NoError(t, cmd.ExecuteContext(context.Background()))

		assert.Contains(t, out.String(), "/v1/users/{user_id}")
		assert.Contains(t, out.String(), "read_user")
		assert.Contains(t, out.String(), "async")
		assert.Contains(t, out.String(), "Read a user")
	})

	t.Run("yaml", func(t *testing.T) {
		cmd := NewCommand(&appcontext.Mock{Format: "yaml"})
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--source", root})
		require.NoError(t, cmd.ExecuteContext(context.Background()))

		var decoded struct {
			Endpoints []struct {
				Method       string `yaml:"method"`
				ResolvedPath string `yaml:"resolved_path"`
			} `yaml:"endpoints"`
		}
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
		require.Len(t, decoded.Endpoints, 1)
		assert.Equal(t, "GET", decoded.Endpoints[0].Method)
		assert.Equal(t, "/v1/users/{user_id}", decoded.Endpoints[0].ResolvedPath)
	})
}
