package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mergedPRPayload = `{
	"action": "closed",
	"pull_request": {
		"number": 42,
		"title": "Add retry logic",
		"html_url": "https://github.com/acme/widget/pull/42",
		"merged": true,
		"labels": [{"name": "bounty"}, {"name": "enhancement"}]
	},
	"repository": {"full_name": "acme/widget", "name": "widget"},
	"sender": {"login": "octocat"}
}`

const releasePayload = `{
	"action": "published",
	"release": {
		"tag_name": "v1.2.0",
		"name": "v1.2.0",
		"body": "Bug fixes",
		"html_url": "https://github.com/acme/widget/releases/tag/v1.2.0"
	},
	"repository": {"full_name": "acme/widget", "name": "widget"},
	"sender": {"login": "octocat"}
}`

const workflowRunPayload = `{
	"action": "completed",
	"workflow_run": {
		"id": 7,
		"name": "CI",
		"conclusion": "success",
		"head_branch": "main",
		"html_url": "https://github.com/acme/widget/actions/runs/7"
	},
	"repository": {"full_name": "acme/widget", "name": "widget"},
	"sender": {"login": "octocat"}
}`

func TestParseMergedPullRequest(t *testing.T) {
	event, err := Parse("pull_request", []byte(mergedPRPayload))
	require.NoError(t, err)

	assert.True(t, event.Known())
	assert.Equal(t, "pull_request.closed", event.EventKey())
	assert.Equal(t, "acme/widget", event.RepoFullName())
	assert.Equal(t, "octocat", event.Actor())
	assert.True(t, event.IsMerged())
	assert.Equal(t, []string{"bounty", "enhancement"}, event.Labels())
}

func TestParseRelease(t *testing.T) {
	event, err := Parse("release", []byte(releasePayload))
	require.NoError(t, err)

	assert.Equal(t, "release.published", event.EventKey())
	assert.Equal(t, "v1.2.0", event.Release.Release.TagName)
	assert.False(t, event.IsMerged())
	assert.Empty(t, event.Labels())
}

func TestParseWorkflowRun(t *testing.T) {
	event, err := Parse("workflow_run", []byte(workflowRunPayload))
	require.NoError(t, err)

	assert.Equal(t, "workflow_run.completed", event.EventKey())
	assert.Equal(t, "success", event.WorkflowRun.WorkflowRun.Conclusion)
	assert.Equal(t, "main", event.WorkflowRun.WorkflowRun.HeadBranch)
}

func TestParseUnknownEventType(t *testing.T) {
	event, err := Parse("star", []byte(`{"action": "created"}`))
	require.NoError(t, err)

	assert.False(t, event.Known())
	assert.Empty(t, event.EventKey())
	assert.Empty(t, event.RepoFullName())
	assert.Empty(t, event.Actor())
}

func TestParseMalformedPayload(t *testing.T) {
	_, err := Parse("release", []byte(`{not json`))
	assert.Error(t, err)
}
