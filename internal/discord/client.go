package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Discord channel types used by the client.
const (
	ChannelTypeText     = 0
	ChannelTypeCategory = 4
	ChannelTypeForum    = 15
)

// Embed colors per event family.
const (
	ColorSuccess = 0x2ECC71 // green
	ColorFailure = 0xE74C3C // red
	ColorSkipped = 0x95A5A6 // grey
	ColorPR      = 0x9B59B6 // purple, merged PRs
	ColorBounty  = 0xF1C40F // gold, bounty-labeled events
	ColorIssue   = 0x3498DB // blue
)

const defaultBaseURL = "https://discord.com/api/v10"

type EmbedFooter struct {
	Text string `json:"text"`
}

type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

type messageRequest struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type threadRequest struct {
	Name    string         `json:"name"`
	Message messageRequest `json:"message"`
}

type channelRequest struct {
	Name     string `json:"name"`
	Type     int    `json:"type"`
	ParentID string `json:"parent_id,omitempty"`
}

type followupRequest struct {
	Content string `json:"content"`
	Flags   int    `json:"flags"`
}

type channelResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

// Command describes a slash command for registration.
type Command struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Options     []CommandOption `json:"options,omitempty"`
}

type CommandOption struct {
	Type        int    `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Client is a minimal Discord REST client covering the endpoints the
// service needs: posting messages, managing channels and forum threads, and
// answering interactions.
type Client struct {
	BotToken      string
	ApplicationID string
	BaseURL       string
	HTTPClient    *http.Client
}

func NewClient(botToken, applicationID string) *Client {
	return &Client{
		BotToken:      botToken,
		ApplicationID: applicationID,
		BaseURL:       defaultBaseURL,
		HTTPClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// do sends one authenticated JSON request. A 429 is retried once after
// waiting out Retry-After.
func (c *Client) do(method, path string, payload interface{}, out interface{}) error {
	var body []byte

	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s payload: %w", method, path, err)
		}
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(body))

		if err != nil {
			return err
		}

		req.Header.Set("Authorization", "Bot "+c.BotToken)

		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.HTTPClient.Do(req)

		if err != nil {
			return fmt.Errorf("discord request failed: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt == 0 {
			wait, _ := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64)
			resp.Body.Close()
			if wait <= 0 {
				wait = 1
			}
			time.Sleep(time.Duration(wait * float64(time.Second)))
			continue
		}

		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			data, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("discord API returned status %d: %s", resp.StatusCode, string(data))
		}

		if out != nil {
			return json.NewDecoder(resp.Body).Decode(out)
		}

		return nil
	}
}

// SendEmbed posts an embed message to a channel or thread.
func (c *Client) SendEmbed(channelID string, embed Embed) error {
	if embed.Timestamp == "" {
		embed.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	payload := messageRequest{Embeds: []Embed{embed}}

	return c.do("POST", "/channels/"+channelID+"/messages", payload, nil)
}

// CreateForumThread starts a thread in a forum channel and returns its ID.
func (c *Client) CreateForumThread(forumChannelID, name, content string) (string, error) {
	payload := threadRequest{
		Name:    name,
		Message: messageRequest{Content: content},
	}

	var thread channelResponse

	if err := c.do("POST", "/channels/"+forumChannelID+"/threads", payload, &thread); err != nil {
		return "", err
	}

	return thread.ID, nil
}

// CreateProjectForum creates a forum channel for a project under the GitHub
// category and returns its ID.
func (c *Client) CreateProjectForum(guildID, categoryID, projectName string) (string, error) {
	return c.createChannel(guildID, channelRequest{
		Name:     projectName,
		Type:     ChannelTypeForum,
		ParentID: categoryID,
	})
}

// FindChannelByName returns the ID of the guild channel with the given name
// (case-insensitive), or "" when no channel matches.
func (c *Client) FindChannelByName(guildID, name string) (string, error) {
	var channels []channelResponse

	if err := c.do("GET", "/guilds/"+guildID+"/channels", nil, &channels); err != nil {
		return "", err
	}

	for _, channel := range channels {
		if strings.EqualFold(channel.Name, name) {
			return channel.ID, nil
		}
	}

	return "", nil
}

// CreateAnnouncementsChannel creates the guild-wide announcements channel.
func (c *Client) CreateAnnouncementsChannel(guildID string) (string, error) {
	return c.createChannel(guildID, channelRequest{
		Name: "announcements",
		Type: ChannelTypeText,
	})
}

// CreateGithubCategory creates the category that holds project forums.
func (c *Client) CreateGithubCategory(guildID string) (string, error) {
	return c.createChannel(guildID, channelRequest{
		Name: "GitHub",
		Type: ChannelTypeCategory,
	})
}

// CreateModCategory creates the moderation category with its
// project-review and approvals channels. Returns the three channel IDs.
func (c *Client) CreateModCategory(guildID string) (categoryID, reviewID, approvalsID string, err error) {
	categoryID, err = c.createChannel(guildID, channelRequest{
		Name: "Mod",
		Type: ChannelTypeCategory,
	})

	if err != nil {
		return "", "", "", err
	}

	reviewID, err = c.CreateChannelInCategory(guildID, categoryID, "project-review")

	if err != nil {
		return "", "", "", err
	}

	approvalsID, err = c.CreateChannelInCategory(guildID, categoryID, "approvals")

	if err != nil {
		return "", "", "", err
	}

	return categoryID, reviewID, approvalsID, nil
}

// CreateChannelInCategory creates a text channel under the given category.
func (c *Client) CreateChannelInCategory(guildID, categoryID, name string) (string, error) {
	return c.createChannel(guildID, channelRequest{
		Name:     name,
		Type:     ChannelTypeText,
		ParentID: categoryID,
	})
}

func (c *Client) createChannel(guildID string, payload channelRequest) (string, error) {
	var channel channelResponse

	if err := c.do("POST", "/guilds/"+guildID+"/channels", payload, &channel); err != nil {
		return "", err
	}

	return channel.ID, nil
}

// FollowupInteraction sends the ephemeral followup message that completes a
// deferred interaction response.
func (c *Client) FollowupInteraction(token, content string) error {
	payload := followupRequest{Content: content, Flags: 64}

	return c.do("POST", "/webhooks/"+c.ApplicationID+"/"+token, payload, nil)
}

// RegisterGuildCommands overwrites the slash commands registered for a guild.
func (c *Client) RegisterGuildCommands(guildID string, commands []Command) error {
	path := "/applications/" + c.ApplicationID + "/guilds/" + guildID + "/commands"

	return c.do("PUT", path, commands, nil)
}

// RegisterGlobalCommands overwrites the globally registered slash commands.
func (c *Client) RegisterGlobalCommands(commands []Command) error {
	path := "/applications/" + c.ApplicationID + "/commands"

	return c.do("PUT", path, commands, nil)
}
