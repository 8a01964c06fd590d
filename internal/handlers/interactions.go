package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytehub-dev/bytehub/internal/discord"
	"github.com/bytehub-dev/bytehub/internal/governance"
	"github.com/bytehub-dev/bytehub/internal/models"
	"github.com/gin-gonic/gin"
)

// Discord interaction and response type constants.
const (
	interactionPing    = 1
	interactionCommand = 2

	responsePong           = 1
	responseChannelMessage = 4
	responseDeferred       = 5

	flagEphemeral = 64
)

// Guild permission bits that grant access to governance commands.
const (
	permAdministrator = 0x8
	permManageGuild   = 0x20
)

var errUnauthorized = errors.New("you need Administrator or Manage Server permission for this command")

type Interaction struct {
	Type    int              `json:"type"`
	ID      string           `json:"id"`
	Token   string           `json:"token"`
	GuildID string           `json:"guild_id"`
	Data    *InteractionData `json:"data"`
	Member  *Member          `json:"member"`
}

type InteractionData struct {
	Name    string              `json:"name"`
	Options []InteractionOption `json:"options"`
}

type InteractionOption struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

type Member struct {
	User        MemberUser `json:"user"`
	Permissions string     `json:"permissions"`
}

type MemberUser struct {
	ID string `json:"id"`
}

type InteractionResponse struct {
	Type int           `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

type ResponseData struct {
	Content string `json:"content"`
	Flags   int    `json:"flags,omitempty"`
}

// ChannelAdmin is the slice of the Discord client the interaction commands
// need for channel management and deferred followups.
type ChannelAdmin interface {
	FindChannelByName(guildID, name string) (string, error)
	CreateAnnouncementsChannel(guildID string) (string, error)
	CreateGithubCategory(guildID string) (string, error)
	CreateModCategory(guildID string) (categoryID, reviewID, approvalsID string, err error)
	CreateChannelInCategory(guildID, categoryID, name string) (string, error)
	CreateProjectForum(guildID, categoryID, name string) (string, error)
	FollowupInteraction(token, content string) error
}

// InteractionHandler answers Discord slash-command webhooks.
type InteractionHandler struct {
	PublicKey  string
	Projects   *governance.ProjectStore
	Configs    *governance.ConfigStore
	Whitelist  *governance.WhitelistStore
	Moderators *governance.ModeratorStore
	Discord    ChannelAdmin
	Limiter    *discord.RateLimiter
}

func (h *InteractionHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	signature := c.GetHeader("X-Signature-Ed25519")
	timestamp := c.GetHeader("X-Signature-Timestamp")

	if !discord.VerifyInteraction(h.PublicKey, timestamp, body, signature) {
		log.Println("Invalid Discord interaction signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var interaction Interaction

	if err := json.Unmarshal(body, &interaction); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if interaction.Type == interactionPing {
		c.JSON(http.StatusOK, InteractionResponse{Type: responsePong})
		return
	}

	if interaction.Type != interactionCommand || interaction.Data == nil {
		c.JSON(http.StatusOK, InteractionResponse{Type: responsePong})
		return
	}

	// Channel creation can take longer than Discord's 3 second interaction
	// deadline, so setup-server and approve defer and answer via followup.
	switch interaction.Data.Name {
	case "setup-server", "approve":
		h.handleDeferred(c, &interaction)
	default:
		h.respond(c, h.runCommand(&interaction))
	}
}

func (h *InteractionHandler) respond(c *gin.Context, content string) {
	c.JSON(http.StatusOK, InteractionResponse{
		Type: responseChannelMessage,
		Data: &ResponseData{Content: content, Flags: flagEphemeral},
	})
}

func (h *InteractionHandler) handleDeferred(c *gin.Context, interaction *Interaction) {
	if err := h.checkModerator(interaction.Member); err != nil {
		h.respond(c, "❌ "+err.Error())
		return
	}

	if h.Limiter != nil {
		if ok, wait := h.Limiter.Allow(interaction.GuildID); !ok {
			h.respond(c, fmt.Sprintf("Slow down. Try again in %d seconds.", int(wait.Seconds())))
			return
		}
	}

	name := interaction.Data.Name
	token := interaction.Token
	snapshot := *interaction

	go func() {
		var content string
		var err error

		switch name {
		case "setup-server":
			content, err = h.doSetupServer(&snapshot)
		case "approve":
			content, err = h.doApprove(&snapshot)
		}

		if err != nil {
			content = fmt.Sprintf("❌ Error: %v", err)
		}

		if err := h.Discord.FollowupInteraction(token, content); err != nil {
			log.Printf("Failed to send %s followup: %v", name, err)
		}
	}()

	c.JSON(http.StatusOK, InteractionResponse{Type: responseDeferred})
}

func (h *InteractionHandler) runCommand(interaction *Interaction) string {
	var content string
	var err error

	switch interaction.Data.Name {
	case "submit-project":
		content, err = h.submitProject(interaction)
	case "deny":
		content, err = h.denyProject(interaction)
	case "whitelist-user":
		content, err = h.whitelistUser(interaction)
	case "list":
		content, err = h.listProjects(interaction)
	default:
		content = "Unknown command"
	}

	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}

	return content
}

func (h *InteractionHandler) submitProject(interaction *Interaction) (string, error) {
	repo, err := stringOption(interaction.Data, "repo")

	if err != nil {
		return "", err
	}

	if _, err := h.Projects.Submit(repo); err != nil {
		return "", err
	}

	return fmt.Sprintf("Project `%s` submitted for approval.", repo), nil
}

func (h *InteractionHandler) denyProject(interaction *Interaction) (string, error) {
	if err := h.checkModerator(interaction.Member); err != nil {
		return "", err
	}

	repo, err := stringOption(interaction.Data, "repo")

	if err != nil {
		return "", err
	}

	if err := h.Projects.Deny(repo); err != nil {
		return "", err
	}

	return fmt.Sprintf("Project `%s` denied and removed.", repo), nil
}

func (h *InteractionHandler) whitelistUser(interaction *Interaction) (string, error) {
	if err := h.checkModerator(interaction.Member); err != nil {
		return "", err
	}

	username, err := stringOption(interaction.Data, "username")

	if err != nil {
		return "", err
	}

	if err := h.Whitelist.AddUser(username); err != nil {
		return "", err
	}

	return fmt.Sprintf("User `%s` added to whitelist.", username), nil
}

func (h *InteractionHandler) listProjects(interaction *Interaction) (string, error) {
	if err := h.checkModerator(interaction.Member); err != nil {
		return "", err
	}

	projects, err := h.Projects.List()

	if err != nil {
		return "", err
	}

	if len(projects) == 0 {
		return "No projects registered.", nil
	}

	var approved, pending []string

	for _, p := range projects {
		line := fmt.Sprintf("• `%s`", p.GithubRepo)
		if p.IsApproved {
			approved = append(approved, line)
		} else {
			pending = append(pending, line)
		}
	}

	var sections []string

	if len(approved) > 0 {
		sections = append(sections, "**✅ Approved:**\n"+strings.Join(approved, "\n"))
	}

	if len(pending) > 0 {
		sections = append(sections, "**⏳ Pending:**\n"+strings.Join(pending, "\n"))
	}

	return strings.Join(sections, "\n\n"), nil
}

// doApprove creates (or reuses) a forum channel for the project under the
// guild's GitHub category, then approves the project and seeds its rules.
func (h *InteractionHandler) doApprove(interaction *Interaction) (string, error) {
	repo, err := stringOption(interaction.Data, "repo")

	if err != nil {
		return "", err
	}

	if interaction.GuildID == "" {
		return "", errors.New("this command only works in a server")
	}

	config, err := h.Configs.Get(interaction.GuildID)

	if err != nil {
		if errors.Is(err, governance.ErrNotFound) {
			return "", errors.New("server not set up, run /setup-server first")
		}
		return "", err
	}

	projectName := repo

	if idx := strings.LastIndex(repo, "/"); idx >= 0 {
		projectName = repo[idx+1:]
	}

	forumID := ""
	reused := false

	if project, err := h.Projects.Get(repo); err == nil && project.ForumChannelID != "" {
		forumID = project.ForumChannelID
		reused = true
	}

	if forumID == "" {
		forumID, err = h.Discord.CreateProjectForum(interaction.GuildID, config.GithubForumID, projectName)
		if err != nil {
			return "", err
		}
	}

	if err := h.Projects.ApproveWithForum(repo, forumID, interaction.GuildID); err != nil {
		return "", err
	}

	action := fmt.Sprintf("Created forum: <#%s>", forumID)

	if reused {
		action = fmt.Sprintf("Reusing existing forum: <#%s>", forumID)
	}

	return fmt.Sprintf("✅ Project `%s` approved!\n\n%s", repo, action), nil
}

// doSetupServer finds or creates the guild's standard channels and persists
// the resulting configuration. Re-running repairs deleted channels and is a
// no-op when nothing changed.
func (h *InteractionHandler) doSetupServer(interaction *Interaction) (string, error) {
	guildID := interaction.GuildID

	if guildID == "" {
		return "", errors.New("this command only works in a server")
	}

	announcementsID, err := h.findOrCreate(guildID, "announcements", h.Discord.CreateAnnouncementsChannel)

	if err != nil {
		return "", err
	}

	githubCategoryID, err := h.findOrCreate(guildID, "GitHub", h.Discord.CreateGithubCategory)

	if err != nil {
		return "", err
	}

	modCategoryID, err := h.Discord.FindChannelByName(guildID, "Mod")

	if err != nil {
		return "", err
	}

	var reviewID, approvalsID string

	if modCategoryID == "" {
		modCategoryID, reviewID, approvalsID, err = h.Discord.CreateModCategory(guildID)
		if err != nil {
			return "", err
		}
	} else {
		reviewID, err = h.findOrCreateIn(guildID, modCategoryID, "project-review")
		if err != nil {
			return "", err
		}

		approvalsID, err = h.findOrCreateIn(guildID, modCategoryID, "approvals")
		if err != nil {
			return "", err
		}
	}

	_, err = h.Configs.Save(models.ServerConfig{
		GuildID:         guildID,
		AnnouncementsID: announcementsID,
		GithubForumID:   githubCategoryID,
		ModCategoryID:   &modCategoryID,
		ProjectReviewID: &reviewID,
		ApprovalsID:     &approvalsID,
	})

	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"✅ **Server setup complete!**\n\n**Channels:**\n• <#%s> - Announcements\n• <#%s> - GitHub (Category)\n• <#%s> - Mod (project-review)\n• <#%s> - Mod (approvals)",
		announcementsID, githubCategoryID, reviewID, approvalsID,
	), nil
}

func (h *InteractionHandler) findOrCreate(guildID, name string, create func(string) (string, error)) (string, error) {
	id, err := h.Discord.FindChannelByName(guildID, name)

	if err != nil {
		return "", err
	}

	if id != "" {
		return id, nil
	}

	return create(guildID)
}

func (h *InteractionHandler) findOrCreateIn(guildID, categoryID, name string) (string, error) {
	id, err := h.Discord.FindChannelByName(guildID, name)

	if err != nil {
		return "", err
	}

	if id != "" {
		return id, nil
	}

	return h.Discord.CreateChannelInCategory(guildID, categoryID, name)
}

func stringOption(data *InteractionData, name string) (string, error) {
	for _, option := range data.Options {
		if option.Name != name {
			continue
		}
		if value, ok := option.Value.(string); ok {
			return value, nil
		}
	}

	return "", fmt.Errorf("missing %s option", name)
}

// checkModerator authorizes governance commands. Guild permission bits are
// checked first; users without them can still be granted access via the
// moderators table.
func (h *InteractionHandler) checkModerator(member *Member) error {
	if member == nil {
		return errUnauthorized
	}

	permissions, err := strconv.ParseUint(member.Permissions, 10, 64)

	if err == nil && (permissions&permAdministrator != 0 || permissions&permManageGuild != 0) {
		return nil
	}

	if h.Moderators != nil {
		if ok, err := h.Moderators.IsModerator(member.User.ID); err == nil && ok {
			return nil
		}
	}

	return errUnauthorized
}
