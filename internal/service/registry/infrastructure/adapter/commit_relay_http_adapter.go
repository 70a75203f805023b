package adapter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"giftregistry/internal/pkg/httpclient"
	"giftregistry/internal/service/registry/domain/port"
)

const (
	commitRelayBackendName = "commit-relay"

	// RelaySecretHeader carries the shared secret expected by the relay.
	RelaySecretHeader = "X-Relay-Secret"
)

// commitRequest is the body the relay expects: the repository path to
// commit and the full new file content.
type commitRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// CommitRelayHTTPAdapter delegates credentialed commits to a separate
// trusted service. It is write-only.
type CommitRelayHTTPAdapter struct {
	client *httpclient.Client
	url    string
	secret string
	path   string
}

// NewCommitRelayHTTPAdapter creates the relay tier. path is the repository
// path the relay should commit to.
func NewCommitRelayHTTPAdapter(client *httpclient.Client, url, secret, path string) *CommitRelayHTTPAdapter {
	return &CommitRelayHTTPAdapter{client: client, url: url, secret: secret, path: path}
}

func (a *CommitRelayHTTPAdapter) Name() string { return commitRelayBackendName }

func (a *CommitRelayHTTPAdapter) Read(context.Context) ([]byte, error) {
	return nil, port.ErrUnsupported
}

func (a *CommitRelayHTTPAdapter) Write(ctx context.Context, content []byte) error {
	body, err := json.Marshal(commitRequest{Path: a.path, Content: string(content)})
	if err != nil {
		return errors.Wrap(err, "encode commit request")
	}

	header := http.Header{}
	if a.secret != "" {
		header.Set(RelaySecretHeader, a.secret)
	}

	resp, err := a.client.PostJSON(ctx, a.url, body, header)
	if err != nil {
		return errors.Wrap(err, "commit relay unreachable")
	}
	if !resp.OK() {
		return errors.Errorf("commit relay returned status %s", resp.Status)
	}
	return nil
}
