package qilbee

import "context"

// User is a QilbeeDB account as reported by the user-management API.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// CreateUserRequest carries the fields accepted when creating an account.
type CreateUserRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

type listUsersResponse struct {
	Users []User `json:"users"`
}

// ListUsers returns all user accounts. Requires admin privileges.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var resp listUsersResponse
	if err := c.getJSON(ctx, "list users", "/api/v1/users", &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// CreateUser creates a new account and returns it.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var user User
	if err := c.postJSON(ctx, "create user", "/api/v1/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account by ID.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.deleteJSON(ctx, "delete user", "/api/v1/users/"+id)
}
