package api

import "context"

// webhookLog carries the typed per-request fields the webhook handler hands
// to the request log emitted by the observability middleware. The middleware
// injects an empty carrier before the handler runs; the handler fills it in.
type webhookLog struct {
	MessageID string
	Dup       bool
	Result    string
}

type ctxKey int

const webhookLogKey ctxKey = iota

func withWebhookLog(ctx context.Context) (context.Context, *webhookLog) {
	wl := &webhookLog{}
	return context.WithValue(ctx, webhookLogKey, wl), wl
}

func webhookLogFrom(ctx context.Context) *webhookLog {
	wl, _ := ctx.Value(webhookLogKey).(*webhookLog)
	return wl
}
