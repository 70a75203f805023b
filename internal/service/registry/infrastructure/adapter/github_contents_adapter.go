package adapter

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	githubBackendName = "github"

	// CommitMessage is used for every commit of the item list.
	CommitMessage = "Update itens.json: item reserved"
)

// GitHubRepo locates the hosted file.
type GitHubRepo struct {
	Owner  string
	Name   string
	Branch string
	Path   string
	Token  string
	// APIURL overrides https://api.github.com/ (GitHub Enterprise, tests).
	APIURL string
}

// GitHubContentsAdapter keeps the item list as a file in a GitHub repository,
// read and written through the repository contents API.
type GitHubContentsAdapter struct {
	client *github.Client
	repo   GitHubRepo
	tracer trace.Tracer
}

// NewGitHubContentsAdapter builds the hosted tier on top of httpClient.
func NewGitHubContentsAdapter(httpClient *http.Client, tracer trace.Tracer, repo GitHubRepo) (*GitHubContentsAdapter, error) {
	client := github.NewClient(httpClient)
	if repo.Token != "" {
		client = client.WithAuthToken(repo.Token)
	}
	if repo.APIURL != "" {
		base := repo.APIURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, errors.Wrapf(err, "parse github api url %q", repo.APIURL)
		}
		client.BaseURL = u
	}
	return &GitHubContentsAdapter{client: client, repo: repo, tracer: tracer}, nil
}

func (a *GitHubContentsAdapter) Name() string { return githubBackendName }

func (a *GitHubContentsAdapter) Read(ctx context.Context) ([]byte, error) {
	ctx, span := a.tracer.Start(ctx, "github.GetContents", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	a.annotate(span)

	file, err := a.getFile(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get contents failed")
		return nil, err
	}
	content, err := file.GetContent()
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "decode github file content")
	}
	return []byte(content), nil
}

// Write commits content to the configured branch. The current blob SHA is
// looked up first; a missing file simply means the commit creates it.
func (a *GitHubContentsAdapter) Write(ctx context.Context, content []byte) error {
	ctx, span := a.tracer.Start(ctx, "github.CommitFile", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	a.annotate(span)

	var sha *string
	file, err := a.getFile(ctx)
	switch {
	case err == nil:
		sha = github.String(file.GetSHA())
	case isNotFound(err):
		span.AddEvent("file not found, creating")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "sha lookup failed")
		return err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(CommitMessage),
		Content: content,
		SHA:     sha,
	}
	if a.repo.Branch != "" {
		opts.Branch = github.String(a.repo.Branch)
	}

	if sha != nil {
		_, _, err = a.client.Repositories.UpdateFile(ctx, a.repo.Owner, a.repo.Name, a.repo.Path, opts)
	} else {
		_, _, err = a.client.Repositories.CreateFile(ctx, a.repo.Owner, a.repo.Name, a.repo.Path, opts)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return errors.Wrapf(err, "commit %s to %s/%s", a.repo.Path, a.repo.Owner, a.repo.Name)
	}
	return nil
}

func (a *GitHubContentsAdapter) getFile(ctx context.Context) (*github.RepositoryContent, error) {
	var opts *github.RepositoryContentGetOptions
	if a.repo.Branch != "" {
		opts = &github.RepositoryContentGetOptions{Ref: a.repo.Branch}
	}
	file, _, _, err := a.client.Repositories.GetContents(ctx, a.repo.Owner, a.repo.Name, a.repo.Path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s from %s/%s", a.repo.Path, a.repo.Owner, a.repo.Name)
	}
	if file == nil {
		return nil, errors.Errorf("%s in %s/%s is a directory", a.repo.Path, a.repo.Owner, a.repo.Name)
	}
	return file, nil
}

func (a *GitHubContentsAdapter) annotate(span trace.Span) {
	span.SetAttributes(
		attribute.String("github.repo", a.repo.Owner+"/"+a.repo.Name),
		attribute.String("github.branch", a.repo.Branch),
		attribute.String("github.path", a.repo.Path),
	)
}

func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
