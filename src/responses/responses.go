// Package responses holds the typed record shapes that tool payloads decode
// into. Checked fields use the validation primitives, so a value of any of
// these types only exists in fully validated form.
package responses

import (
	"errors"

	"github.com/mcpbridge/go-mcpbridge/src/json"
	"github.com/mcpbridge/go-mcpbridge/src/validation"
)

// StartCrawlResult is returned when a web crawl session is started.
type StartCrawlResult struct {
	CrawlID validation.NonEmptyString `json:"crawl_id"`
}

// StartSearchResult is returned when a file or content search is started.
// The session identifier arrives as either "session_id" or "sessionId"
// depending on the server revision.
type StartSearchResult struct {
	SessionID string
}

func (r *StartSearchResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Snake validation.NonEmptyString `json:"session_id"`
		Camel validation.NonEmptyString `json:"sessionId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Snake != "":
		r.SessionID = string(raw.Snake)
	case raw.Camel != "":
		r.SessionID = string(raw.Camel)
	default:
		return errors.New(`missing "session_id" field`)
	}
	return nil
}

// SpawnAgentsResult is returned when agent worker sessions are spawned.
type SpawnAgentsResult struct {
	SessionIDs  validation.NonEmptyStrings `json:"session_ids"`
	WorkerCount uint32                     `json:"worker_count"`
	Agents      []json.RawMessage          `json:"agents,omitempty"`
}

// Validate checks that the reported worker count matches the sessions
// actually spawned.
func (r *SpawnAgentsResult) Validate() error {
	if len(r.SessionIDs) != int(r.WorkerCount) {
		return validation.CountMismatchError("worker_count", int(r.WorkerCount), len(r.SessionIDs))
	}
	return nil
}

// StartCommandResult is returned when a terminal command is started.
type StartCommandResult struct {
	PID    validation.PositiveInt `json:"pid"`
	Status string                 `json:"status,omitempty"`
}

// PromptResult is returned when a prompt template is fetched.
type PromptResult struct {
	Name     string         `json:"name"`
	Metadata PromptMetadata `json:"metadata"`
	Content  string         `json:"content"`
	Rendered bool           `json:"rendered"`
}

// RenderPromptResult is returned when a prompt is rendered with parameters.
type RenderPromptResult struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Rendered bool   `json:"rendered"`
}

type PromptMetadata struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Categories  []string              `json:"categories"`
	Author      string                `json:"author"`
	Parameters  []ParameterDefinition `json:"parameters,omitempty"`
}

type ParameterDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

// ServerConfigResult is the server configuration snapshot returned by the
// config tools.
type ServerConfigResult struct {
	BlockedCommands           []string        `json:"blocked_commands"`
	DefaultShell              string          `json:"default_shell"`
	AllowedDirectories        []string        `json:"allowed_directories"`
	DeniedDirectories         []string        `json:"denied_directories"`
	FileReadLineLimit         int             `json:"file_read_line_limit"`
	FileWriteLineLimit        int             `json:"file_write_line_limit"`
	FuzzySearchThreshold      float64         `json:"fuzzy_search_threshold"`
	HTTPConnectionTimeoutSecs uint64          `json:"http_connection_timeout_secs"`
	CurrentClient             *ClientIdentity `json:"current_client,omitempty"`
	ClientHistory             []ClientRecord  `json:"client_history,omitempty"`
	SystemInfo                SystemInfo      `json:"system_info"`
}

// ClientIdentity is the identity a client reported during its handshake.
type ClientIdentity struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ClientRecord is one historical client connection with timestamps.
type ClientRecord struct {
	ClientInfo  ClientIdentity `json:"client_info"`
	ConnectedAt string         `json:"connected_at"`
	LastSeen    string         `json:"last_seen"`
}

// SystemInfo carries the server host's diagnostics.
type SystemInfo struct {
	Platform       string     `json:"platform"`
	Arch           string     `json:"arch"`
	OSVersion      string     `json:"os_version"`
	KernelVersion  string     `json:"kernel_version"`
	Hostname       string     `json:"hostname"`
	RuntimeVersion string     `json:"runtime_version"`
	CPUCount       int        `json:"cpu_count"`
	Memory         MemoryInfo `json:"memory"`
}

type MemoryInfo struct {
	TotalMB     string `json:"total_mb"`
	AvailableMB string `json:"available_mb"`
	UsedMB      string `json:"used_mb"`
}

// SequentialThinkingResult is returned by the sequential thinking tool.
type SequentialThinkingResult struct {
	SessionID            validation.NonEmptyString `json:"session_id"`
	ThoughtNumber        uint32                    `json:"thought_number"`
	TotalThoughts        uint32                    `json:"total_thoughts"`
	NextThoughtNeeded    bool                      `json:"next_thought_needed"`
	Branches             []string                  `json:"branches"`
	ThoughtHistoryLength int                       `json:"thought_history_length"`
}

// GitHubUser identifies a GitHub account.
type GitHubUser struct {
	ID        validation.PositiveUint   `json:"id"`
	Login     validation.NonEmptyString `json:"login"`
	Name      string                    `json:"name,omitempty"`
	Email     string                    `json:"email,omitempty"`
	AvatarURL string                    `json:"avatar_url,omitempty"`
	HTMLURL   string                    `json:"html_url,omitempty"`
}

type GitHubRepository struct {
	ID              uint64     `json:"id"`
	Name            string     `json:"name"`
	FullName        string     `json:"full_name"`
	Owner           GitHubUser `json:"owner"`
	Description     string     `json:"description,omitempty"`
	HTMLURL         string     `json:"html_url,omitempty"`
	CloneURL        string     `json:"clone_url,omitempty"`
	DefaultBranch   string     `json:"default_branch,omitempty"`
	StargazersCount uint64     `json:"stargazers_count,omitempty"`
	ForksCount      uint64     `json:"forks_count,omitempty"`
	OpenIssuesCount uint64     `json:"open_issues_count,omitempty"`
	Language        string     `json:"language,omitempty"`
	CreatedAt       string     `json:"created_at,omitempty"`
	UpdatedAt       string     `json:"updated_at,omitempty"`
}

type GitHubLabel struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type GitHubIssue struct {
	ID        uint64        `json:"id"`
	Number    uint64        `json:"number"`
	Title     string        `json:"title"`
	Body      string        `json:"body,omitempty"`
	State     string        `json:"state"`
	User      GitHubUser    `json:"user"`
	Assignees []GitHubUser  `json:"assignees,omitempty"`
	Labels    []GitHubLabel `json:"labels,omitempty"`
	HTMLURL   string        `json:"html_url,omitempty"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// GitHubComment is a comment on an issue or pull request.
type GitHubComment struct {
	ID        uint64     `json:"id"`
	Body      string     `json:"body"`
	User      GitHubUser `json:"user"`
	HTMLURL   string     `json:"html_url,omitempty"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
}

type GitHubBranchRef struct {
	Ref  string           `json:"ref"`
	SHA  string           `json:"sha"`
	Repo GitHubRepository `json:"repo"`
}

type GitHubPullRequest struct {
	ID        uint64          `json:"id"`
	Number    uint64          `json:"number"`
	Title     string          `json:"title"`
	Body      string          `json:"body,omitempty"`
	State     string          `json:"state"`
	User      GitHubUser      `json:"user"`
	Head      GitHubBranchRef `json:"head"`
	Base      GitHubBranchRef `json:"base"`
	HTMLURL   string          `json:"html_url,omitempty"`
	Mergeable *bool           `json:"mergeable,omitempty"`
	Merged    bool            `json:"merged"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type GitHubReview struct {
	ID          uint64     `json:"id"`
	User        GitHubUser `json:"user"`
	Body        string     `json:"body,omitempty"`
	State       string     `json:"state"`
	HTMLURL     string     `json:"html_url,omitempty"`
	SubmittedAt string     `json:"submitted_at,omitempty"`
}

type GitHubPullRequestFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions uint64 `json:"additions"`
	Deletions uint64 `json:"deletions"`
	Changes   uint64 `json:"changes"`
	Patch     string `json:"patch,omitempty"`
}

type GitHubBranch struct {
	Name      string          `json:"name"`
	Commit    GitHubCommitRef `json:"commit"`
	Protected bool            `json:"protected"`
}

type GitHubCommitRef struct {
	SHA string `json:"sha"`
	URL string `json:"url"`
}

type GitHubCommit struct {
	SHA       string             `json:"sha"`
	Commit    GitHubCommitDetail `json:"commit"`
	Author    *GitHubUser        `json:"author,omitempty"`
	Committer *GitHubUser        `json:"committer,omitempty"`
	HTMLURL   string             `json:"html_url,omitempty"`
}

type GitHubCommitDetail struct {
	Message   string             `json:"message"`
	Author    GitHubCommitAuthor `json:"author"`
	Committer GitHubCommitAuthor `json:"committer"`
}

type GitHubCommitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

type GitHubMergeResult struct {
	SHA     string `json:"sha"`
	Merged  bool   `json:"merged"`
	Message string `json:"message"`
}

// GitHubSearchResults wraps paginated search hits of any record type.
type GitHubSearchResults[T any] struct {
	TotalCount        uint64 `json:"total_count"`
	IncompleteResults bool   `json:"incomplete_results"`
	Items             []T    `json:"items"`
}

// GitHubIssuesResult is the {"count": N, "issues": [...]} wrapper the issue
// listing and search tools return. The issue objects are complete; no
// follow-up calls are needed.
type GitHubIssuesResult struct {
	Count  uint64        `json:"count"`
	Issues []GitHubIssue `json:"issues"`
}

func (r *GitHubIssuesResult) Validate() error {
	if int(r.Count) != len(r.Issues) {
		return validation.CountMismatchError("count", int(r.Count), len(r.Issues))
	}
	return nil
}

// GitHubCommentsResult is the {"count": N, "comments": [...]} wrapper the
// comment listing tool returns.
type GitHubCommentsResult struct {
	Count    uint64          `json:"count"`
	Comments []GitHubComment `json:"comments"`
}

func (r *GitHubCommentsResult) Validate() error {
	if int(r.Count) != len(r.Comments) {
		return validation.CountMismatchError("count", int(r.Count), len(r.Comments))
	}
	return nil
}

type GitHubCodeResult struct {
	Name       string           `json:"name"`
	Path       string           `json:"path"`
	SHA        string           `json:"sha"`
	HTMLURL    string           `json:"html_url,omitempty"`
	Repository GitHubRepository `json:"repository"`
}
