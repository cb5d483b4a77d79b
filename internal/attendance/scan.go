package attendance

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	attendanceerrors "github.com/rinov1/WorkWave/internal/attendance/errors"

	"go.uber.org/zap"
)

// Scanner produces one scanned office code or fails with ErrScanCancelled.
type Scanner interface {
	Scan(ctx context.Context) (string, error)
}

// LineScanner reads one code per line, as a handheld QR reader in keyboard mode types it.
type LineScanner struct {
	lines *bufio.Scanner
}

func NewLineScanner(r io.Reader) *LineScanner {
	return &LineScanner{lines: bufio.NewScanner(r)}
}

// Scan treats EOF and blank lines as a cancelled scan.
func (s *LineScanner) Scan(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	out := make(chan result, 1)
	go func() {
		if !s.lines.Scan() {
			err := s.lines.Err()
			if err == nil {
				err = attendanceerrors.ErrScanCancelled
			}
			out <- result{err: err}
			return
		}
		out <- result{line: s.lines.Text()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-out:
		if r.err != nil {
			return "", r.err
		}
		code := strings.TrimSpace(r.line)
		if code == "" {
			return "", attendanceerrors.ErrScanCancelled
		}
		return code, nil
	}
}

type KioskAction string

const (
	KioskClockIn  KioskAction = "in"
	KioskClockOut KioskAction = "out"
)

// Kiosk runs one scan and hands the code to the session engine.
type Kiosk struct {
	service Service
	scanner Scanner
	now     func() time.Time
	logger  *zap.Logger
}

func NewKiosk(service Service, scanner Scanner, logger ...*zap.Logger) *Kiosk {
	l := zap.L().Named("attendance.kiosk")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.kiosk")
	}
	return &Kiosk{service: service, scanner: scanner, now: time.Now, logger: l}
}

// Run returns ErrScanCancelled without touching state when the scan is abandoned.
func (k *Kiosk) Run(ctx context.Context, action KioskAction, accountID int64) (SessionResponse, error) {
	code, err := k.scanner.Scan(ctx)
	if err != nil {
		if errors.Is(err, attendanceerrors.ErrScanCancelled) {
			k.logger.Info("scan cancelled", zap.Int64("account_id", accountID))
		}
		return SessionResponse{}, err
	}

	switch action {
	case KioskClockIn:
		res, err := k.service.ClockIn(ctx, accountID, code, k.now())
		if err != nil {
			return SessionResponse{}, err
		}
		return res.Session, nil
	case KioskClockOut:
		return k.service.ClockOut(ctx, accountID, code, k.now())
	default:
		return SessionResponse{}, errors.New("unknown kiosk action: " + string(action))
	}
}
