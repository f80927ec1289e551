package domain

import "time"

const (
	AnnouncementTitleMax   = 100
	AnnouncementMessageMax = 500
)

type Announcement struct {
	ID             int64
	Title          string
	Message        string
	RestaurantName string
	CreatedBy      string
	CreatedAt      time.Time
}
