package dispatch

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bytehub-dev/bytehub/internal/discord"
	"github.com/bytehub-dev/bytehub/internal/github"
	"github.com/bytehub-dev/bytehub/internal/governance"
	"github.com/bytehub-dev/bytehub/internal/models"
)

// Notifier is the slice of the Discord client the dispatcher needs.
type Notifier interface {
	SendEmbed(channelID string, embed discord.Embed) error
	CreateForumThread(forumChannelID, name, content string) (string, error)
}

// Dispatcher routes a parsed GitHub event through the governance engine and
// posts the resulting notifications.
type Dispatcher struct {
	Projects  *governance.ProjectStore
	Rules     *governance.RuleStore
	Configs   *governance.ConfigStore
	Whitelist *governance.WhitelistStore
	Discord   Notifier
}

// Dispatch resolves the approved project for the event's repo, evaluates the
// project's rules, and executes the matched action set. Events from unknown
// or unapproved repos and events matching no rule are silently skipped.
func (d *Dispatcher) Dispatch(event *github.Event) error {
	repo := event.RepoFullName()

	if repo == "" {
		return nil
	}

	project, err := d.Projects.GetApproved(repo)

	if err != nil {
		if errors.Is(err, governance.ErrNotFound) {
			log.Printf("Ignoring event from unlisted/unapproved repo %s", repo)
			return nil
		}
		return err
	}

	if d.filtered(event) {
		log.Printf("Event %s from %s filtered out", event.EventKey(), repo)
		return nil
	}

	rules, err := d.Rules.GetByProject(project.ID)

	if err != nil {
		return err
	}

	actions, matched := governance.Evaluate(rules, event.EventKey(), event.IsMerged())

	if !matched {
		log.Printf("No rule matched %s for %s", event.EventKey(), repo)
		return nil
	}

	if actions.PostForum {
		threadID, err := d.getOrCreateThread(project, repo)

		if err != nil {
			return err
		}

		if err := d.Discord.SendEmbed(threadID, buildEmbed(event)); err != nil {
			return err
		}

		log.Printf("Posted %s for %s to project thread", event.EventKey(), repo)
	}

	if actions.PostAnnounce {
		if err := d.announce(project, event, repo); err != nil {
			return err
		}
	}

	return nil
}

// filtered applies the noise filters that run before rule evaluation:
// bot-authored PRs and issues (unless whitelisted), and workflow runs that
// were cancelled, skipped, or ran outside main/master.
func (d *Dispatcher) filtered(event *github.Event) bool {
	if event.WorkflowRun != nil {
		run := event.WorkflowRun.WorkflowRun
		if run.Conclusion == "skipped" || run.Conclusion == "cancelled" {
			return true
		}
		return run.HeadBranch != "main" && run.HeadBranch != "master"
	}

	actor := event.Actor()

	if (event.PullRequest != nil || event.Issue != nil) && isBotActor(actor) {
		if d.Whitelist != nil {
			if ok, err := d.Whitelist.IsWhitelisted(actor); err == nil && ok {
				return false
			}
		}
		return true
	}

	return false
}

func isBotActor(login string) bool {
	bots := []string{
		"dependabot",
		"renovate",
		"github-actions",
	}

	login = strings.ToLower(login)

	for _, bot := range bots {
		if strings.Contains(login, bot) {
			return true
		}
	}

	return false
}

// getOrCreateThread returns the project's activity thread, creating it in
// the project's forum channel on first use and persisting the ID.
func (d *Dispatcher) getOrCreateThread(project *models.Project, repo string) (string, error) {
	if project.ThreadID != nil && *project.ThreadID != "" {
		return *project.ThreadID, nil
	}

	name := repo

	if idx := strings.LastIndex(repo, "/"); idx >= 0 {
		name = repo[idx+1:]
	}

	threadID, err := d.Discord.CreateForumThread(
		project.ForumChannelID,
		fmt.Sprintf("📦 %s Activity", name),
		"Project activity thread. All events will be posted here.",
	)

	if err != nil {
		return "", err
	}

	if err := d.Projects.UpdateThreadID(repo, threadID); err != nil {
		return "", err
	}

	return threadID, nil
}

func (d *Dispatcher) announce(project *models.Project, event *github.Event, repo string) error {
	config, err := d.Configs.Get(project.GuildID)

	if err != nil {
		if errors.Is(err, governance.ErrNotFound) {
			log.Printf("Guild %s has no server config, skipping announcement for %s", project.GuildID, repo)
			return nil
		}
		return err
	}

	embed := buildEmbed(event)
	embed.Footer = &discord.EmbedFooter{Text: repo}

	if err := d.Discord.SendEmbed(config.AnnouncementsID, embed); err != nil {
		return err
	}

	log.Printf("Posted %s for %s to announcements", event.EventKey(), repo)
	return nil
}

func hasBounty(labels []string) bool {
	for _, label := range labels {
		if label == "bounty" {
			return true
		}
	}
	return false
}

// buildEmbed renders an event as a colored embed.
func buildEmbed(event *github.Event) discord.Embed {
	switch {
	case event.WorkflowRun != nil:
		run := event.WorkflowRun.WorkflowRun
		conclusion := run.Conclusion
		if conclusion == "" {
			conclusion = "unknown"
		}

		color := discord.ColorFailure
		emoji := "❌"
		if conclusion == "success" {
			color = discord.ColorSuccess
			emoji = "✅"
		}

		name := run.Name
		if name == "" {
			name = "CI"
		}

		return discord.Embed{
			Title:       fmt.Sprintf("%s %s %s", emoji, name, conclusion),
			Description: fmt.Sprintf("Branch: `%s`\n[View Run](%s)", run.HeadBranch, run.HTMLURL),
			Color:       color,
		}

	case event.PullRequest != nil:
		pr := event.PullRequest.PullRequest

		color := discord.ColorPR
		emoji := "🧩"
		if hasBounty(event.Labels()) {
			color = discord.ColorBounty
			emoji = "🪙"
		}

		return discord.Embed{
			Title: fmt.Sprintf("%s PR #%d merged", emoji, pr.Number),
			Description: fmt.Sprintf("**%s**\nby @%s\n[View PR](%s)",
				pr.Title, event.PullRequest.Sender.Login, pr.HTMLURL),
			Color: color,
		}

	case event.Issue != nil:
		issue := event.Issue.Issue

		color := discord.ColorIssue
		emoji := "📋"
		if hasBounty(event.Labels()) {
			color = discord.ColorBounty
			emoji = "🪙"
		}

		return discord.Embed{
			Title: fmt.Sprintf("%s Issue #%d opened", emoji, issue.Number),
			Description: fmt.Sprintf("**%s**\nby @%s\n[View Issue](%s)",
				issue.Title, event.Issue.Sender.Login, issue.HTMLURL),
			Color: color,
		}

	case event.Release != nil:
		release := event.Release.Release

		return discord.Embed{
			Title: fmt.Sprintf("🚀 Release %s", release.TagName),
			Description: fmt.Sprintf("%s\n\n[View Release](%s)",
				release.Body, release.HTMLURL),
			Color:  discord.ColorSuccess,
			Footer: &discord.EmbedFooter{Text: "by @" + event.Release.Sender.Login},
		}
	}

	return discord.Embed{}
}
