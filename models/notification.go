package models

// NotificationGroup is one cost-bounded slice of a submitted order. Groups
// exist so a human can approve each batch under the processing ceiling
// independently.
type NotificationGroup struct {
	ProductNumbers []string `json:"product_numbers"`
	Subtotal       float64  `json:"subtotal"`
}

// NotificationBatch is the grouped view of one submitted order, computed
// once per submission and discarded after the notification is sent.
type NotificationBatch struct {
	Groups      []NotificationGroup `json:"groups"`
	DetailLines []string            `json:"detail_lines"`
}
