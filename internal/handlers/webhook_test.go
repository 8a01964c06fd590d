package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytehub-dev/bytehub/internal/discord"
	"github.com/bytehub-dev/bytehub/internal/dispatch"
	"github.com/bytehub-dev/bytehub/internal/governance"
	"github.com/bytehub-dev/bytehub/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const webhookSecret = "test-secret"

type recordingNotifier struct {
	embeds  []string // channel IDs posted to
	threads int
}

func (r *recordingNotifier) SendEmbed(channelID string, embed discord.Embed) error {
	r.embeds = append(r.embeds, channelID)
	return nil
}

func (r *recordingNotifier) CreateForumThread(forumChannelID, name, content string) (string, error) {
	r.threads++
	return "thread-1", nil
}

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(
		&models.Project{},
		&models.Rule{},
		&models.ServerConfig{},
		&models.WhitelistUser{},
		&models.Moderator{},
	))

	return database
}

func newWebhookRouter(t *testing.T) (*gin.Engine, *recordingNotifier, *governance.ProjectStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := newHandlerDB(t)
	notifier := &recordingNotifier{}
	projects := &governance.ProjectStore{DB: database}

	handler := &WebhookHandler{
		Secret: webhookSecret,
		Dispatcher: &dispatch.Dispatcher{
			Projects:  projects,
			Rules:     &governance.RuleStore{DB: database},
			Configs:   &governance.ConfigStore{DB: database},
			Whitelist: &governance.WhitelistStore{DB: database},
			Discord:   notifier,
		},
	}

	r := gin.New()
	r.POST("/webhooks/github", handler.Handle)

	return r, notifier, projects
}

func githubSign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(r *gin.Engine, eventType, signature string, payload []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", bytes.NewReader(payload))
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-Hub-Signature-256", signature)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const releaseBody = `{
	"action": "published",
	"release": {"tag_name": "v1.0.0", "body": "", "html_url": "https://github.com/acme/widget/releases/tag/v1.0.0"},
	"repository": {"full_name": "acme/widget", "name": "widget"},
	"sender": {"login": "octocat"}
}`

func TestWebhookDispatchesSignedEvent(t *testing.T) {
	r, notifier, projects := newWebhookRouter(t)

	_, err := projects.Submit("acme/widget")
	require.NoError(t, err)
	require.NoError(t, projects.ApproveWithForum("acme/widget", "forum-1", "guild-1"))

	payload := []byte(releaseBody)
	w := postWebhook(r, "release", githubSign(payload), payload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, notifier.threads)
	assert.NotEmpty(t, notifier.embeds)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r, notifier, _ := newWebhookRouter(t)

	payload := []byte(releaseBody)
	w := postWebhook(r, "release", "sha256=deadbeef", payload)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, notifier.embeds)
}

func TestWebhookRequiresEventHeader(t *testing.T) {
	r, _, _ := newWebhookRouter(t)

	payload := []byte(releaseBody)
	w := postWebhook(r, "", githubSign(payload), payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookAcknowledgesUnknownEventTypes(t *testing.T) {
	r, notifier, _ := newWebhookRouter(t)

	payload := []byte(`{"action": "created"}`)
	w := postWebhook(r, "star", githubSign(payload), payload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, notifier.embeds)
}
