package services

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Deliverer sends a reply to a chat.
type Deliverer interface {
	Deliver(ctx context.Context, chatID, text string) (DeliveryResult, error)
}

// Dispatcher runs deliveries in the background so webhook responses never
// wait on the outbound API. Outcomes are only logged.
type Dispatcher struct {
	deliverer Deliverer
	log       *zap.Logger
	wg        sync.WaitGroup
}

func NewDispatcher(deliverer Deliverer, log *zap.Logger) *Dispatcher {
	return &Dispatcher{deliverer: deliverer, log: log.Named("dispatcher")}
}

// Dispatch starts delivering text to chatID and returns immediately. The
// delivery is detached from any request context.
func (d *Dispatcher) Dispatch(chatID, text string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("delivery panicked", zap.String("chat_id", chatID), zap.Any("panic", r))
			}
		}()

		result, err := d.deliverer.Deliver(context.Background(), chatID, text)
		fields := []zap.Field{
			zap.String("chat_id", chatID),
			zap.String("outcome", string(result.Outcome)),
			zap.Int("status", result.StatusCode),
			zap.Int("attempts", result.Attempts),
		}
		switch {
		case err != nil:
			d.log.Error("delivery failed", append(fields, zap.Error(err))...)
		case !result.OK():
			d.log.Warn("delivery not accepted", append(fields, zap.String("error", result.Error))...)
		default:
			d.log.Info("delivery completed", fields...)
		}
	}()
}

// Drain waits for in-flight deliveries or until ctx is done.
func (d *Dispatcher) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
