package sftpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"coursehub/internal/config"
)

type Config struct {
	Host                  string
	Port                  int
	User                  string
	Pass                  string
	RemoteDir             string
	InsecureIgnoreHostKey bool
	KnownHostsFile        string
}

// FromConfig picks the SFTP settings out of the app config.
func FromConfig(c config.Config) Config {
	return Config{
		Host:                  c.SFTPHost,
		Port:                  c.SFTPPort,
		User:                  c.SFTPUser,
		Pass:                  c.SFTPPass,
		RemoteDir:             c.SFTPDir,
		InsecureIgnoreHostKey: c.SFTPInsecureIgnoreHostKey,
		KnownHostsFile:        c.SFTPKnownHosts,
	}
}

var errMissing = errors.New("sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS")

func (cfg *Config) normalize() error {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return errMissing
	}
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if cfg.RemoteDir == "" {
		cfg.RemoteDir = "/"
	}
	return nil
}

func (cfg Config) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	if cfg.KnownHostsFile == "" {
		return nil, fmt.Errorf("sftp: SFTP_KNOWN_HOSTS is required unless SFTP_INSECURE_IGNORE_HOSTKEY=true")
	}
	cb, err := knownhosts.New(cfg.KnownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("sftp: known_hosts: %w", err)
	}
	return cb, nil
}

// UploadFile copies localPath to RemoteDir/remoteFileName.
func UploadFile(ctx context.Context, cfg Config, localPath string, remoteFileName string) error {
	if err := cfg.normalize(); err != nil {
		return err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("sftp: open local file: %w", err)
	}
	defer src.Close()

	return Upload(ctx, cfg, src, remoteFileName)
}

// Upload streams r to RemoteDir/remoteFileName, creating RemoteDir if needed.
func Upload(ctx context.Context, cfg Config, r io.Reader, remoteFileName string) error {
	if err := cfg.normalize(); err != nil {
		return err
	}
	cb, err := cfg.hostKeyCallback()
	if err != nil {
		return err
	}

	sshCfg := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Pass)},
		HostKeyCallback: cb,
		Timeout:         20 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	// ctx para timeout/cancel
	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	var sshClient *ssh.Client
	select {
	case <-ctx.Done():
		// the dial goroutine may still succeed; close what it returns
		go func() {
			if r := <-ch; r.client != nil {
				r.client.Close()
			}
		}()
		return fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return fmt.Errorf("sftp: dial error: %w", r.err)
		}
		sshClient = r.client
	}
	defer sshClient.Close()

	sftpCli, err := sftp.NewClient(sshClient)
	if err != nil {
		return fmt.Errorf("sftp: new client: %w", err)
	}
	defer sftpCli.Close()

	// Asegura dir destino
	if err := sftpCli.MkdirAll(cfg.RemoteDir); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", cfg.RemoteDir, err)
	}

	remotePath := path.Join(cfg.RemoteDir, remoteFileName)
	dst, err := sftpCli.Create(remotePath)
	if err != nil {
		return fmt.Errorf("sftp: create remote file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("sftp: upload copy: %w", err)
	}

	return nil
}
