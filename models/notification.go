package models

import (
	"strings"
	"time"
)

const orderNotificationPrefix = "order_"

// PushNotification is the inbound push payload delivered to the device.
type PushNotification struct {
	Type    string            `json:"type"`
	OrderID string            `json:"orderId"`
	Status  string            `json:"status"`
	SentAt  *time.Time        `json:"sentAt,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}

// IsOrderEvent reports whether the notification is an order_* event.
func (n PushNotification) IsOrderEvent() bool {
	return strings.HasPrefix(n.Type, orderNotificationPrefix)
}
