package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin uploads a headers file to the proxy's /auth/upload endpoint and keeps a copy in ~/.ytsync.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	filePath := cmd.StringArg("path")
	fileData, err := shared.VerifyAndReadFile(filePath)
	if err != nil {
		return err
	}

	if err := shared.ValidateJSON(fileData); err != nil {
		return err
	}

	r.logger.Infof("uploading auth headers from %v", filePath)

	resp, err := r.api.UploadJSON(ctx, "/auth/upload", fileData)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAuthFailed, resp.StatusCode, string(resp.Body))
	}

	r.logger.Info("authentication successful")

	home, err := os.UserHomeDir()
	if err != nil {
		r.logger.Warnf("failed to find home directory %v", err)
		return r.writePlain("✓ Authentication successful\n")
	}

	authDir := filepath.Join(home, ".ytsync")
	if err := os.MkdirAll(authDir, 0755); err != nil {
		r.logger.Warnf("failed to create auth directory %v", err)
	} else {
		destPath := filepath.Join(authDir, "headers_auth.json")
		if err := os.WriteFile(destPath, fileData, 0600); err != nil {
			r.logger.Warnf("failed to save auth file %v", err)
		} else {
			r.logger.Infof("auth file saved to %v", destPath)
		}
	}

	return r.writePlain("✓ Authentication successful\n")
}

// AuthStatus checks current authentication state by calling the /health endpoint.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	resp, err := r.api.Health(ctx)
	if err != nil {
		return err
	}

	healthData, ok := resp.JSONData.(map[string]any)
	if !ok {
		return r.writePlain("✓ Service is healthy\nStatus: %s\n", string(resp.Body))
	}

	status, ok := healthData["status"].(string)
	if !ok {
		status = "unknown"
	}
	authenticated, _ := healthData["authenticated"].(bool)

	r.writePlain("✓ Service is healthy\n")
	r.writePlain("Status: %s\n", status)
	if authenticated {
		return r.writePlain("Authentication: ✓ Authenticated\n")
	}
	return r.writePlain("Authentication: ✗ Not authenticated\n")
}
