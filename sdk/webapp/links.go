package webapp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/miniappkit/miniappkit/sdk/bridge"
	"github.com/miniappkit/miniappkit/sdk/compat"
	"github.com/miniappkit/miniappkit/sdk/event"
)

// InvoiceStatus is the terminal state the host reports for an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
	InvoiceStatusFailed    InvoiceStatus = "failed"
	InvoiceStatusPending   InvoiceStatus = "pending"
)

// OpenLinkOptions tweak how the host opens an external link.
type OpenLinkOptions struct {
	// TryInstantView asks the host to render the page in its reader mode.
	// Silently dropped on hosts that predate the option.
	TryInstantView bool
}

// OpenLink opens an external URL. On hosts without the bridge method it
// degrades to a plain browser navigation through the configured opener, so
// the link still opens somewhere.
func (w *WebApp) OpenLink(ctx context.Context, rawURL string, opts OpenLinkOptions) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: open_link needs an absolute http(s) URL, got %q", bridge.ErrInvalidArgument, rawURL)
	}

	if !w.table.Supports(compat.CapabilityOpenLink) {
		if w.opener == nil {
			return fmt.Errorf("%w: host cannot open links and no fallback opener is configured", bridge.ErrUnsupported)
		}
		w.logger.Debug(ctx, "Opening link via legacy navigation", "url", rawURL)
		return w.opener.Open(ctx, rawURL)
	}

	payload := map[string]interface{}{"url": rawURL}
	if opts.TryInstantView && w.table.SupportsParam(compat.CapabilityOpenLink, "try_instant_view") {
		payload["try_instant_view"] = true
	}

	return w.bridge.PostEvent(ctx, compat.MethodOpenLink, payload)
}

// OpenInvoice opens a payment invoice and blocks until the host reports its
// terminal status. Unlike OpenLink there is no meaningful degraded path, so
// an old host yields Unsupported instead of a fallback.
func (w *WebApp) OpenInvoice(ctx context.Context, rawURL string) (InvoiceStatus, error) {
	slug, err := invoiceSlug(rawURL)
	if err != nil {
		return "", err
	}

	if !w.table.Supports(compat.CapabilityOpenInvoice) {
		return "", fmt.Errorf("%w: invoices require host %s+", bridge.ErrUnsupported, "6.1")
	}

	raw, err := w.bridge.Request(ctx, bridge.RequestParams{
		Method:        compat.MethodOpenInvoice,
		Payload:       map[string]interface{}{"slug": slug},
		ResponseEvent: compat.EventInvoiceClosed,
		Capture: func(e event.Event) bool {
			var closed struct {
				Slug string `json:"slug"`
			}
			if err := json.Unmarshal(e.Payload, &closed); err != nil {
				return false
			}
			return closed.Slug == slug
		},
	})
	if err != nil {
		return "", err
	}

	var closed struct {
		Status InvoiceStatus `json:"status"`
	}
	if err := json.Unmarshal(raw, &closed); err != nil {
		return "", fmt.Errorf("decode invoice_closed payload: %w", err)
	}

	w.logger.Info(ctx, "Invoice closed", "slug", slug, "status", closed.Status)
	return closed.Status, nil
}

// invoiceSlug extracts the invoice identifier from its https URL.
func invoiceSlug(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return "", fmt.Errorf("%w: open_invoice needs an absolute https URL, got %q", bridge.ErrInvalidArgument, rawURL)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	slug := parts[len(parts)-1]
	if slug == "" {
		return "", fmt.Errorf("%w: invoice URL %q carries no slug", bridge.ErrInvalidArgument, rawURL)
	}
	return slug, nil
}
