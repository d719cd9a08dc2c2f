package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the proxy
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	return r.writeResponse(resp.IsJSON, resp.JSONData, resp.Body, !cmd.Bool("raw"))
}

// APIPost makes a direct POST request with a JSON body to the proxy
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if err := shared.ValidateJSON([]byte(data)); err != nil {
		return err
	}

	r.logger.Info("POST request", "path", path)

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	return r.writeResponse(resp.IsJSON, resp.JSONData, resp.Body, true)
}

func (r *Runner) writeResponse(isJSON bool, data any, body []byte, pretty bool) error {
	if isJSON {
		return r.writeJSON(data, pretty)
	}
	if err := r.writeBytes(body); err != nil {
		return err
	}
	return r.writePlain("\n")
}
