package strapi

import (
	"context"
	"net/http"
	"net/url"

	"coursehub/internal/domain"
	"coursehub/internal/mappers"
)

// CreateModule creates a module attached to in.CourseID.
func (c *Client) CreateModule(ctx context.Context, in ModuleInput) (domain.Module, error) {
	const op, fallback = "create-module", "Failed to create module"
	body, err := c.send(ctx, op, fallback, http.MethodPost, "/api/modules", nil, envelope{Data: toModuleBody(in)})
	if err != nil {
		return domain.Module{}, err
	}
	return c.decodeModule(op, fallback, body)
}

// UpdateModule replaces every editable field of a module.
func (c *Client) UpdateModule(ctx context.Context, id string, in ModuleInput) (domain.Module, error) {
	const op, fallback = "update-module", "Failed to update module"
	body, err := c.send(ctx, op, fallback, http.MethodPut, "/api/modules/"+url.PathEscape(id), nil, envelope{Data: toModuleBody(in)})
	if err != nil {
		return domain.Module{}, err
	}
	return c.decodeModule(op, fallback, body)
}

// DeleteModule deletes a module. A non-2xx response fails with the CMS
// message, or "Failed to delete module".
func (c *Client) DeleteModule(ctx context.Context, id string) error {
	_, err := c.send(ctx, "delete-module", "Failed to delete module", http.MethodDelete, "/api/modules/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) decodeModule(op, fallback string, body []byte) (domain.Module, error) {
	raw, err := mappers.DecodeModule(body)
	if err != nil {
		return domain.Module{}, fail(op, fallback, err)
	}
	m := mappers.ToModule(raw)
	if m.ID == "" {
		return domain.Module{}, &Error{Op: op, Message: fallback}
	}
	return m, nil
}
