package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bnema/foodfast-cli/internal/domain"
)

type announcementPayload struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	RestaurantName string `json:"restaurant_name"`
	CreatedBy      string `json:"created_by"`
	CreatedAt      string `json:"created_at"`
}

func (a announcementPayload) toDomain() domain.Announcement {
	return domain.Announcement{
		ID:             a.ID,
		Title:          a.Title,
		Message:        a.Message,
		RestaurantName: a.RestaurantName,
		CreatedBy:      a.CreatedBy,
		CreatedAt:      ParseTimestamp(a.CreatedAt),
	}
}

type CreateAnnouncementArgs struct {
	Title          string `json:"title"`
	Message        string `json:"message"`
	RestaurantName string `json:"restaurant_name,omitempty"`
	CreatedBy      string `json:"created_by,omitempty"`
}

// CreateAnnouncement broadcasts an announcement to every connected customer.
// Note the create response nests under "announcement" and the list under
// "announcements"; neither uses the usual "data" key.
func (c *Client) CreateAnnouncement(ctx context.Context, args CreateAnnouncementArgs) (domain.Announcement, error) {
	if args.Title == "" || args.Message == "" {
		return domain.Announcement{}, fmt.Errorf("create announcement: title and message are required")
	}
	if len(args.Title) > domain.AnnouncementTitleMax {
		return domain.Announcement{}, fmt.Errorf("create announcement: title exceeds %d characters", domain.AnnouncementTitleMax)
	}
	if len(args.Message) > domain.AnnouncementMessageMax {
		return domain.Announcement{}, fmt.Errorf("create announcement: message exceeds %d characters", domain.AnnouncementMessageMax)
	}

	var resp struct {
		Success      bool                `json:"success"`
		Message      string              `json:"message"`
		Announcement announcementPayload `json:"announcement"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/announcements", nil, args, &resp); err != nil {
		return domain.Announcement{}, fmt.Errorf("create announcement: %w", err)
	}
	if !resp.Success {
		return domain.Announcement{}, fmt.Errorf("create announcement: %s", resp.Message)
	}

	return resp.Announcement.toDomain(), nil
}

func (c *Client) Announcements(ctx context.Context) ([]domain.Announcement, error) {
	var resp struct {
		Success       bool                  `json:"success"`
		Announcements []announcementPayload `json:"announcements"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/announcements", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}

	announcements := make([]domain.Announcement, 0, len(resp.Announcements))
	for _, payload := range resp.Announcements {
		announcements = append(announcements, payload.toDomain())
	}

	return announcements, nil
}
