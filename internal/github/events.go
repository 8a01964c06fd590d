package github

import (
	"encoding/json"
	"fmt"
)

type Repository struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`
}

type User struct {
	Login string `json:"login"`
}

type Label struct {
	Name string `json:"name"`
}

type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
}

type ReleaseEvent struct {
	Action     string     `json:"action"`
	Release    Release    `json:"release"`
	Repository Repository `json:"repository"`
	Sender     User       `json:"sender"`
}

type PullRequest struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	HTMLURL string  `json:"html_url"`
	Merged  bool    `json:"merged"`
	Labels  []Label `json:"labels"`
}

type PullRequestEvent struct {
	Action      string      `json:"action"`
	PullRequest PullRequest `json:"pull_request"`
	Repository  Repository  `json:"repository"`
	Sender      User        `json:"sender"`
}

type Issue struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	HTMLURL string  `json:"html_url"`
	Labels  []Label `json:"labels"`
}

type IssueEvent struct {
	Action     string     `json:"action"`
	Issue      Issue      `json:"issue"`
	Repository Repository `json:"repository"`
	Sender     User       `json:"sender"`
}

type WorkflowRun struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Conclusion string `json:"conclusion"`
	HeadBranch string `json:"head_branch"`
	HTMLURL    string `json:"html_url"`
}

type WorkflowRunEvent struct {
	Action      string      `json:"action"`
	WorkflowRun WorkflowRun `json:"workflow_run"`
	Repository  Repository  `json:"repository"`
	Sender      User        `json:"sender"`
}

// Event is a webhook delivery narrowed to the event families the router
// understands. Exactly one payload field is set for a known event type; all
// are nil for event types the service ignores.
type Event struct {
	Type        string
	Release     *ReleaseEvent
	PullRequest *PullRequestEvent
	Issue       *IssueEvent
	WorkflowRun *WorkflowRunEvent
}

// Parse decodes a webhook body according to the X-GitHub-Event header value.
// Unknown event types parse successfully into an Event with no payload.
func Parse(eventType string, payload []byte) (*Event, error) {
	event := Event{Type: eventType}

	var err error

	switch eventType {
	case "release":
		event.Release = &ReleaseEvent{}
		err = json.Unmarshal(payload, event.Release)
	case "pull_request":
		event.PullRequest = &PullRequestEvent{}
		err = json.Unmarshal(payload, event.PullRequest)
	case "issues":
		event.Issue = &IssueEvent{}
		err = json.Unmarshal(payload, event.Issue)
	case "workflow_run":
		event.WorkflowRun = &WorkflowRunEvent{}
		err = json.Unmarshal(payload, event.WorkflowRun)
	}

	if err != nil {
		return nil, fmt.Errorf("parsing %s payload: %w", eventType, err)
	}

	return &event, nil
}

// Known reports whether the event belongs to a routed event family.
func (e *Event) Known() bool {
	return e.Release != nil || e.PullRequest != nil || e.Issue != nil || e.WorkflowRun != nil
}

// EventKey returns the classification key used by routing rules, e.g.
// "release.published" or "pull_request.closed". Empty for unknown events.
func (e *Event) EventKey() string {
	switch {
	case e.Release != nil:
		return "release." + e.Release.Action
	case e.PullRequest != nil:
		return "pull_request." + e.PullRequest.Action
	case e.Issue != nil:
		return "issues." + e.Issue.Action
	case e.WorkflowRun != nil:
		return "workflow_run." + e.WorkflowRun.Action
	}
	return ""
}

// RepoFullName returns the "owner/repo" the event originated from.
func (e *Event) RepoFullName() string {
	switch {
	case e.Release != nil:
		return e.Release.Repository.FullName
	case e.PullRequest != nil:
		return e.PullRequest.Repository.FullName
	case e.Issue != nil:
		return e.Issue.Repository.FullName
	case e.WorkflowRun != nil:
		return e.WorkflowRun.Repository.FullName
	}
	return ""
}

// Actor returns the login of the user who triggered the event.
func (e *Event) Actor() string {
	switch {
	case e.Release != nil:
		return e.Release.Sender.Login
	case e.PullRequest != nil:
		return e.PullRequest.Sender.Login
	case e.Issue != nil:
		return e.Issue.Sender.Login
	case e.WorkflowRun != nil:
		return e.WorkflowRun.Sender.Login
	}
	return ""
}

// Labels returns the label names attached to the pull request or issue.
func (e *Event) Labels() []string {
	var labels []Label

	switch {
	case e.PullRequest != nil:
		labels = e.PullRequest.PullRequest.Labels
	case e.Issue != nil:
		labels = e.Issue.Issue.Labels
	default:
		return nil
	}

	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.Name)
	}
	return names
}

// IsMerged reports whether the event is a merged pull request. Always false
// for non-PR events.
func (e *Event) IsMerged() bool {
	if e.PullRequest == nil {
		return false
	}
	return e.PullRequest.PullRequest.Merged
}
