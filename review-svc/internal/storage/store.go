package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"iter"
	"net"
	"syscall"
)

var (
	// ErrUnavailable means the backend could not be reached at all.
	ErrUnavailable = errors.New("content store unavailable")
	// ErrIO is any other fault reported by a reachable backend.
	ErrIO = errors.New("content store i/o error")
)

// ContentStore is the key-value persistence primitive behind reviews and
// ratings. List yields keys lazily and in no particular order.
type ContentStore interface {
	Set(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	List(ctx context.Context, prefix string) iter.Seq2[string, error]
}

// classify wraps a backend error with ErrUnavailable or ErrIO.
func classify(op string, err error, unavailable ...error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrIO) {
		return err
	}
	if isUnreachable(err, unavailable...) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrIO, err)
}

func isUnreachable(err error, extra ...error) bool {
	for _, target := range extra {
		if errors.Is(err, target) {
			return true
		}
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
