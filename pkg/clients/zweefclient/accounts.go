package zweefclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

type accountDTO struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ListAccounts returns the full member directory of the club.
func (c *Client) ListAccounts(ctx context.Context) ([]model.Member, error) {
	var out []accountDTO
	if err := c.do(ctx, http.MethodGet, c.externalBase+"api/accounts.json", c.apiHeaders(), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	members := make([]model.Member, 0, len(out))
	for _, dto := range out {
		members = append(members, model.Member{
			ID:        dto.ID,
			FirstName: dto.FirstName,
			LastName:  dto.LastName,
			Email:     dto.Email,
		})
	}
	return members, nil
}
