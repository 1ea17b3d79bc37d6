package health

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable はストアへ到達できない場合に返却されます。
var ErrUnavailable = errors.New("health: store unavailable")

// Pinger はストアの疎通確認を行うインターフェースです。
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc は関数を Pinger として扱うためのアダプタです。
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Checker はアプリケーションの稼働状態を確認するユースケースです。
type Checker struct {
	pinger Pinger
}

// NewChecker は Checker を生成します。pinger が nil の場合は常に稼働中とみなします。
func NewChecker(pinger Pinger) *Checker {
	return &Checker{pinger: pinger}
}

// Check はストアへの疎通を確認します。
func (c *Checker) Check(ctx context.Context) error {
	if c.pinger == nil {
		return nil
	}
	if err := c.pinger.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
