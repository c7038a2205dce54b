package ports

import "context"

// User-facing failure messages.
const (
	MsgAddFailed     = "error adding product"
	MsgRemoveFailed  = "error removing product"
	MsgStockExceeded = "requested quantity exceeds available stock"
	MsgUpdateFailed  = "error updating product quantity"
)

// Notifier shows an error message to the user. Fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

// NoopNotifier drops every message.
var NoopNotifier Notifier = NotifierFunc(func(context.Context, string) {})
