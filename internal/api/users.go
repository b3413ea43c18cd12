package api

import (
	"context"
	"net/http"

	"github.com/abisalde/storefront-client/internal/model"
)

func (c *Client) Profile(ctx context.Context) (*model.Account, error) {
	var account model.Account
	if err := c.get(ctx, "/users/profile", nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) Register(ctx context.Context, req model.RegisterAccountRequest) (*model.Account, error) {
	var account model.Account
	if err := c.post(ctx, "/users/register", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.Account, error) {
	var account model.Account
	if err := c.do(ctx, http.MethodPut, "/users/profile", nil, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
