package enums

import "fmt"

// ShopStatus controls whether a listing is visible in the directory.
type ShopStatus string

const (
	ShopStatusPending   ShopStatus = "pending"
	ShopStatusActive    ShopStatus = "active"
	ShopStatusSuspended ShopStatus = "suspended"
)

var validShopStatuses = []ShopStatus{
	ShopStatusPending,
	ShopStatusActive,
	ShopStatusSuspended,
}

func (s ShopStatus) String() string {
	return string(s)
}

func (s ShopStatus) IsValid() bool {
	for _, candidate := range validShopStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShopStatus converts raw input into a ShopStatus.
func ParseShopStatus(value string) (ShopStatus, error) {
	for _, candidate := range validShopStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shop status %q", value)
}
