package util

import (
	"context"
	"time"
)

// Wait 等待 d 或 ctx 取消，取消时返回 ctx.Err()
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
