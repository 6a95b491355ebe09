// Package tools is the static name table for the remote tool catalogue.
package tools

// Filesystem tools.
const (
	ReadFile          = "fs_read_file"
	ReadMultipleFiles = "fs_read_multiple_files"
	WriteFile         = "fs_write_file"
	MoveFile          = "fs_move_file"
	DeleteFile        = "fs_delete_file"
	DeleteDirectory   = "fs_delete_directory"
	ListDirectory     = "fs_list_directory"
	CreateDirectory   = "fs_create_directory"
	GetFileInfo       = "fs_get_file_info"
	EditBlock         = "fs_edit_block"
	StartSearch       = "fs_start_search"
	GetSearchResults  = "fs_get_search_results"
	StopSearch        = "fs_stop_search"
	ListSearches      = "fs_list_searches"
)

// Terminal tools.
const (
	StartTerminalCommand = "start_terminal_command"
	ReadTerminalOutput   = "read_terminal_output"
	SendTerminalInput    = "send_terminal_input"
	StopTerminalCommand  = "stop_terminal_command"
	ListTerminalCommands = "list_terminal_commands"
)

// Process tools.
const (
	ProcessList = "process_list"
	ProcessKill = "process_kill"
)

// Introspection tools.
const (
	InspectUsageStats = "inspect_usage_stats"
	InspectToolCalls  = "inspect_tool_calls"
)

// Prompt tools.
const (
	AddPrompt    = "prompt_add"
	EditPrompt   = "prompt_edit"
	DeletePrompt = "prompt_delete"
	GetPrompt    = "prompt_get"
)

// Sequential thinking.
const SequentialThinking = "sequential_thinking"

// Agent session tools.
const (
	SpawnAgent            = "agent_spawn"
	ReadAgentOutput       = "agent_read_output"
	SendAgentPrompt       = "agent_send_prompt"
	TerminateAgentSession = "agent_terminate_session"
	ListAgents            = "agent_list"
)

// Crawl and web search tools.
const (
	StartCrawl         = "scrape_url"
	GetCrawlResults    = "scrape_check_results"
	SearchCrawlResults = "scrape_search_results"
	WebSearch          = "web_search"
)

// Git tools.
const (
	GitInit           = "git_init"
	GitOpen           = "git_open"
	GitClone          = "git_clone"
	GitDiscover       = "git_discover"
	GitBranchCreate   = "git_branch_create"
	GitBranchDelete   = "git_branch_delete"
	GitBranchList     = "git_branch_list"
	GitBranchRename   = "git_branch_rename"
	GitCommit         = "git_commit"
	GitLog            = "git_log"
	GitAdd            = "git_add"
	GitCheckout       = "git_checkout"
	GitFetch          = "git_fetch"
	GitMerge          = "git_merge"
	GitWorktreeAdd    = "git_worktree_add"
	GitWorktreeRemove = "git_worktree_remove"
	GitWorktreeList   = "git_worktree_list"
	GitWorktreeLock   = "git_worktree_lock"
	GitWorktreeUnlock = "git_worktree_unlock"
	GitWorktreePrune  = "git_worktree_prune"
)

// GitHub tools.
const (
	CreateIssue                 = "create_issue"
	GetIssue                    = "get_issue"
	ListIssues                  = "list_issues"
	UpdateIssue                 = "update_issue"
	SearchIssues                = "search_issues"
	AddIssueComment             = "add_issue_comment"
	GetIssueComments            = "get_issue_comments"
	CreatePullRequest           = "create_pull_request"
	UpdatePullRequest           = "update_pull_request"
	MergePullRequest            = "merge_pull_request"
	GetPullRequestStatus        = "get_pull_request_status"
	GetPullRequestFiles         = "get_pull_request_files"
	GetPullRequestReviews       = "get_pull_request_reviews"
	CreatePullRequestReview     = "create_pull_request_review"
	AddPullRequestReviewComment = "add_pull_request_review_comment"
	RequestCopilotReview        = "request_copilot_review"
	CreateRepository            = "create_repository"
	ForkRepository              = "fork_repository"
	ListBranches                = "list_branches"
	CreateBranch                = "create_branch"
	ListCommits                 = "list_commits"
	GetCommit                   = "get_commit"
	SearchCode                  = "search_code"
	SearchRepositories          = "search_repositories"
	SearchUsers                 = "search_users"
)

// Config tools.
const (
	GetConfig      = "get_config"
	SetConfigValue = "set_config_value"
)

// Database tools.
const (
	ListSchemas         = "list_schemas"
	ListTables          = "list_tables"
	GetTableSchema      = "get_table_schema"
	GetTableIndexes     = "get_table_indexes"
	GetStoredProcedures = "get_stored_procedures"
	ExecuteSQL          = "execute_sql"
	GetPoolStats        = "get_pool_stats"
)
