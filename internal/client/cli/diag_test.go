package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/docproc/internal/client/client"
	"github.com/dmitrijs2005/docproc/internal/client/models"
	"github.com/dmitrijs2005/docproc/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiag_NoRequests(t *testing.T) {
	env := newTestEnv(t, &fakeAPI{}, &memCreds{}, services.AuthFlowLegacy, "")

	require.NoError(t, env.app.Diag(context.Background()))

	out := env.out.String()
	assert.Contains(t, out, "http://backend.test/api")
	assert.Regexp(t, `Auth flow\s+legacy`, out)
	assert.Regexp(t, `Session\s+unauthenticated`, out)
	assert.Regexp(t, `fetchDocuments\s+idle`, out)
	assert.Contains(t, out, "No requests recorded yet.")
}

func TestDiag_ReportsActionsAndMetrics(t *testing.T) {
	api := &fakeAPI{statsErr: &client.APIError{StatusCode: 500}, docs: []models.Document{}}
	env := loggedInEnv(t, api, "")
	require.NoError(t, env.app.documents.FetchDocuments(context.Background()))
	_, _ = env.app.documents.FetchStats(context.Background())
	env.app.metrics.ObserveRequest("GET", "/documents/", 200, 0)

	require.NoError(t, env.app.Diag(context.Background()))

	out := env.out.String()
	assert.Regexp(t, `fetchDocuments\s+succeeded`, out)
	assert.Regexp(t, `fetchStats\s+failed\s+\S+\s+Failed to fetch stats`, out)
	assert.Contains(t, out, `docproc_client_requests_total{method="GET",route="/documents/",status="200"} 1`)
}
