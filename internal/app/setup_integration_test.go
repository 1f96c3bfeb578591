//go:build integration

package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipedesk/assist/internal/config"
	"github.com/pipedesk/assist/internal/testutil"
	"github.com/pipedesk/assist/internal/tools"
)

func TestSetup(t *testing.T) {
	tdb := testutil.SetupTestDB(t)
	ctx := context.Background()

	t.Setenv("DATABASE_URL", tdb.ConnStr)
	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := Setup(ctx, cfg)
	require.NoError(t, err)
	defer func() { require.NoError(t, a.Close(ctx)) }()

	require.NotNil(t, a.Pool)
	require.NotNil(t, a.ReasoningStore)
	require.Equal(t, 7, a.Registry.Count(), "all domain tools plus think should register")

	// The registry is live: an unauthenticated create fails as a business
	// error, not an infrastructure one.
	result, err := a.Registry.Execute(ctx, "create_organization",
		map[string]any{"name": "Acme Corp"},
		tools.Call{ConversationID: "conv-setup"},
	)
	require.NoError(t, err)
	require.Equal(t, tools.StatusError, result.Status)
	require.Equal(t, tools.ErrCodeAuthRequired, result.Error.Code)
}
