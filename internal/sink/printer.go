package sink

import (
	"context"
	"fmt"

	"github.com/tamzrod/drink-counter/internal/printer"
)

const receiptTimeLayout = "2006-01-02 15:04:05"

// PrinterConfig is the receipt layout.
type PrinterConfig struct {
	CharWidth  int
	BannerURL  string // empty: no banner, throttle still advances
	BannerSize int
}

// Printer prints one receipt per event.
// With a nil device it is a no-op; availability is decided once at startup.
type Printer struct {
	dev      printer.Device
	cfg      PrinterConfig
	throttle *BannerThrottle
}

// NewPrinter builds the printer sink. dev may be nil (disabled).
func NewPrinter(dev printer.Device, cfg PrinterConfig, throttle *BannerThrottle) *Printer {
	if throttle == nil {
		throttle = NewBannerThrottle(1)
	}
	return &Printer{dev: dev, cfg: cfg, throttle: throttle}
}

func (p *Printer) Name() string { return "printer" }

// Enabled reports whether a device is attached.
func (p *Printer) Enabled() bool { return p.dev != nil }

func (p *Printer) Consume(ctx context.Context, ev Event) error {
	if p.dev == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r := printer.NewReceipt(p.cfg.CharWidth)
	r.Line(ev.At.Format(receiptTimeLayout))
	r.Line(fmt.Sprintf("%s #%d", ev.Beverage.Name, ev.Value))

	if p.throttle.Due() && p.cfg.BannerURL != "" {
		if err := r.QR(p.cfg.BannerURL, p.cfg.BannerSize); err != nil {
			return err
		}
	}
	r.Rule()

	if err := printer.Print(p.dev, r); err != nil {
		return err
	}

	// Only a receipt that reached the device counts.
	p.throttle.Advance()
	return nil
}
