package model

// ToastVariant is the visual style of a user notification.
type ToastVariant string

const (
	ToastSuccess     ToastVariant = "success"
	ToastInfo        ToastVariant = "info"
	ToastWarning     ToastVariant = "warning"
	ToastDestructive ToastVariant = "destructive"
)

// Toast is a transient user-facing notification.
type Toast struct {
	Title   string       `json:"title"`
	Message string       `json:"message"`
	Variant ToastVariant `json:"variant"`
}
