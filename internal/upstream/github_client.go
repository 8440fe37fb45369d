package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultAPIBaseURLConstant              = "https://api.github.com"
	defaultRequestTimeoutConstant          = 30 * time.Second
	branchCommitEndpointTemplateConstant   = "%s/repos/%s/%s/commits/%s"
	acceptHeaderNameConstant               = "Accept"
	acceptHeaderValueConstant              = "application/vnd.github+json"
	unexpectedStatusErrorTemplateConstant  = "unexpected status %d from %s"
	responseDecodingErrorTemplateConstant  = "unable to decode response from %s: %s"
	requestConstructionErrorTemplateFormat = "unable to build request for %s: %s"
)

// CommitResolver answers the latest commit sha for a branch of a hosted repository.
type CommitResolver interface {
	ResolveBranchTipSHA(executionContext context.Context, owner string, repository string, branch string) (string, error)
}

// UnexpectedStatusError reports a hosting API response outside the expected 200 range.
type UnexpectedStatusError struct {
	StatusCode int
	Endpoint   string
}

// Error describes the unexpected response status.
func (statusError UnexpectedStatusError) Error() string {
	return fmt.Sprintf(unexpectedStatusErrorTemplateConstant, statusError.StatusCode, statusError.Endpoint)
}

// GitHubClient resolves branch tips through the GitHub REST API.
type GitHubClient struct {
	apiBaseURL string
	httpClient *http.Client
}

// NewGitHubClient constructs a client against the provided API base URL with a
// bounded request timeout. Empty arguments select the public GitHub API and
// the default timeout.
func NewGitHubClient(apiBaseURL string, requestTimeout time.Duration) *GitHubClient {
	resolvedTimeout := requestTimeout
	if resolvedTimeout <= 0 {
		resolvedTimeout = defaultRequestTimeoutConstant
	}
	return NewGitHubClientWithHTTPClient(apiBaseURL, &http.Client{Timeout: resolvedTimeout})
}

// NewGitHubClientWithHTTPClient constructs a client around a caller-supplied
// HTTP client, primarily for tests that intercept transport.
func NewGitHubClientWithHTTPClient(apiBaseURL string, httpClient *http.Client) *GitHubClient {
	resolvedBaseURL := strings.TrimSuffix(strings.TrimSpace(apiBaseURL), "/")
	if len(resolvedBaseURL) == 0 {
		resolvedBaseURL = defaultAPIBaseURLConstant
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeoutConstant}
	}

	return &GitHubClient{
		apiBaseURL: resolvedBaseURL,
		httpClient: httpClient,
	}
}

// ResolveBranchTipSHA issues a read-only request for the latest commit on the
// named branch and returns its sha.
func (client *GitHubClient) ResolveBranchTipSHA(executionContext context.Context, owner string, repository string, branch string) (string, error) {
	endpoint := fmt.Sprintf(
		branchCommitEndpointTemplateConstant,
		client.apiBaseURL,
		url.PathEscape(owner),
		url.PathEscape(repository),
		url.PathEscape(branch),
	)

	request, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, endpoint, nil)
	if requestError != nil {
		return "", fmt.Errorf(requestConstructionErrorTemplateFormat, endpoint, requestError)
	}
	request.Header.Set(acceptHeaderNameConstant, acceptHeaderValueConstant)

	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return "", responseError
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", UnexpectedStatusError{StatusCode: response.StatusCode, Endpoint: endpoint}
	}

	var commitPayload struct {
		SHA string `json:"sha"`
	}
	if decodingError := json.NewDecoder(response.Body).Decode(&commitPayload); decodingError != nil {
		return "", fmt.Errorf(responseDecodingErrorTemplateConstant, endpoint, decodingError)
	}

	return commitPayload.SHA, nil
}
