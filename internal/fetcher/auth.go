package fetcher

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/hashicorp/go-hclog"
	crssh "golang.org/x/crypto/ssh"

	"github.com/repolens-dev/repolens/pkg/shared/files"
)

// setupAuth builds the transport auth method for the requested auth type.
// An empty auth type means anonymous access.
func setupAuth(opts Options, logger hclog.Logger) (transport.AuthMethod, error) {
	switch opts.AuthType {
	case "", "none":
		return nil, nil
	case "ssh-key":
		return setupSSHKeyAuth(opts, logger)
	case "ssh-agent":
		return setupSSHAgentAuth(logger)
	case "http":
		return setupHTTPAuth(opts, logger)
	default:
		return nil, fmt.Errorf("unknown auth type: %s", opts.AuthType)
	}
}

func setupSSHKeyAuth(opts Options, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up SSH key authentication")

	if opts.SSHKeyPath == "" {
		return nil, fmt.Errorf("ssh key path is required for ssh-key authentication")
	}
	sshKeyPath, err := files.ExpandPath(opts.SSHKeyPath)
	if err != nil {
		logger.Error("failed to expand SSH key path", "path", opts.SSHKeyPath, "error", err)
		return nil, err
	}

	auth, err := ssh.NewPublicKeysFromFile("git", sshKeyPath, opts.SSHKeyPassword)
	if err != nil {
		logger.Error("failed to set up SSH key authentication", "error", err.Error())
		return nil, err
	}
	auth.HostKeyCallbackHelper = ssh.HostKeyCallbackHelper{
		HostKeyCallback: crssh.InsecureIgnoreHostKey(), // TODO: verify against known_hosts
	}
	return auth, nil
}

func setupSSHAgentAuth(logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up SSH agent authentication")

	auth, err := ssh.NewSSHAgentAuth("git")
	if err != nil {
		logger.Error("failed to set up SSH agent authentication", "error", err)
		return nil, err
	}
	auth.HostKeyCallbackHelper = ssh.HostKeyCallbackHelper{
		HostKeyCallback: crssh.InsecureIgnoreHostKey(), // TODO: verify against known_hosts
	}
	return auth, nil
}

func setupHTTPAuth(opts Options, logger hclog.Logger) (transport.AuthMethod, error) {
	logger.Debug("setting up HTTP authentication")

	if opts.Username == "" {
		return nil, fmt.Errorf("username is required for http authentication")
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("token is required for http authentication")
	}
	return &http.BasicAuth{
		Username: opts.Username,
		Password: opts.Token,
	}, nil
}
