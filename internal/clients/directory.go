package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"accommodations/internal/discovery"
	"accommodations/internal/domain"
)

// DirectoryClient reaches the users and notifications services through a
// PeerResolver.
type DirectoryClient struct {
	Resolver             discovery.PeerResolver
	UsersService         string
	NotificationsService string
	Timeout              time.Duration
}

func NewDirectoryClient(r discovery.PeerResolver, usersService, notificationsService string, timeout time.Duration) *DirectoryClient {
	return &DirectoryClient{
		Resolver:             r,
		UsersService:         usersService,
		NotificationsService: notificationsService,
		Timeout:              timeout,
	}
}

// Users returns the users service listing untouched.
func (c *DirectoryClient) Users(ctx context.Context) (json.RawMessage, error) {
	base, err := c.baseURL(ctx, c.UsersService)
	if err != nil {
		return nil, err
	}
	body, err := send(ctx, c.UsersService, fiber.Get(base+"/v1/users/"), c.Timeout)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s: response is not json", c.UsersService)
	}
	return json.RawMessage(body), nil
}

// User fetches one user. The users service answers lookups with a list; the
// first element is returned and an empty list yields domain.ErrNotFound.
func (c *DirectoryClient) User(ctx context.Context, id string) (domain.User, error) {
	base, err := c.baseURL(ctx, c.UsersService)
	if err != nil {
		return nil, err
	}
	body, err := send(ctx, c.UsersService, fiber.Get(base+"/v1/users/"+url.PathEscape(id)), c.Timeout)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", c.UsersService, err)
		}
		if len(list) == 0 {
			return nil, domain.ErrNotFound
		}
		return domain.User(list[0]), nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%s: response is not json", c.UsersService)
	}
	return domain.User(trimmed), nil
}

// SendNotification returns the status string reported by the notifications service.
func (c *DirectoryClient) SendNotification(ctx context.Context, n domain.Notification) (string, error) {
	base, err := c.baseURL(ctx, c.NotificationsService)
	if err != nil {
		return "", err
	}
	agent := fiber.Post(base + "/v1/notifications").JSON(n)
	body, err := send(ctx, c.NotificationsService, agent, c.Timeout)
	if err != nil {
		return "", err
	}
	var status string
	if err := json.Unmarshal(body, &status); err == nil {
		return status, nil
	}
	return string(bytes.TrimSpace(body)), nil
}

func (c *DirectoryClient) baseURL(ctx context.Context, service string) (string, error) {
	ep, err := c.Resolver.Resolve(ctx, service)
	if err != nil {
		return "", err
	}
	return ep.BaseURL(), nil
}
