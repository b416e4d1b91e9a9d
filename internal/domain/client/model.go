package client

import (
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// Client represents a subscriber of the ISP
type Client struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Document  string `db:"document" json:"document"`
	Email     string `db:"email" json:"email,omitempty"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Address   string `db:"address" json:"address,omitempty"`
	City      string `db:"city" json:"city,omitempty"`

	types.BaseModel
}

func (c *Client) Validate() error {
	if c.Name == "" {
		return ierr.NewError("client name is required").
			WithHint("Name is required").
			Mark(ierr.ErrValidation)
	}
	if c.Document == "" {
		return ierr.NewError("client document is required").
			WithHint("Identity document is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (c *Client) TableName() string {
	return "clients"
}
